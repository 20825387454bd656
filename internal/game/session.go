package game

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"

	"bingoreloaded/internal/card"
	"bingoreloaded/internal/task"
	"bingoreloaded/internal/team"
	"bingoreloaded/internal/timer"
)

const (
	DefaultStartingSeconds   = 10
	DefaultDeathmatchSeconds = 3

	// Main countdown thresholds, in seconds.
	mainMediumThreshold = 5 * 60
	mainLowThreshold    = 60

	stimulusBuffer = 64
)

// Options configures a new session.
type Options struct {
	// Templates are the joinable teams. team.DefaultTemplates is used when
	// empty.
	Templates []team.Template
	// Settings are the initial lobby settings. DefaultSettings is used when
	// the mode is empty.
	Settings Settings
	Tasks    TaskSource
	Sink     Sink
	Host     Host

	StartingSeconds   int
	DeathmatchSeconds int
}

// Session runs the games of one world.
//
// Every state change happens on a single goroutine that processes one
// stimulus at a time; the exported methods queue a stimulus and wait for it.
// Methods called after Close panic.
type Session struct {
	id                string
	tasks             TaskSource
	sink              Sink
	host              Host
	startingSeconds   int
	deathmatchSeconds int

	stimuli   chan func()
	done      chan struct{}
	closed    atomic.Bool
	closeOnce sync.Once

	// Owned by the session goroutine.
	builder   *SettingsBuilder
	settings  Settings
	phase     Phase
	teams     *team.Manager
	names     map[string]string
	joinOrder []string
	starting  *timer.Countdown
	main      timer.Timer
	seed      int64
	rng       *rand.Rand
	elapsed   int
	dm        *deathmatch
	winner    string
}

type deathmatch struct {
	remaining int
	task      *task.Task
	teams     []*team.Team
}

// NewSession creates a session in the lobby and starts its goroutine.
func NewSession(id string, opts Options) (*Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session id must not be empty")
	}
	if opts.Tasks == nil {
		return nil, fmt.Errorf("session %s: no task source", id)
	}
	if opts.Sink == nil {
		opts.Sink = NopSink{}
	}
	if opts.Host == nil {
		opts.Host = NopHost{}
	}
	if len(opts.Templates) == 0 {
		opts.Templates = team.DefaultTemplates()
	}
	if opts.Settings.Mode == "" {
		opts.Settings = DefaultSettings()
	}
	if opts.StartingSeconds <= 0 {
		opts.StartingSeconds = DefaultStartingSeconds
	}
	if opts.DeathmatchSeconds <= 0 {
		opts.DeathmatchSeconds = DefaultDeathmatchSeconds
	}
	if err := opts.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}

	teams, err := team.NewManager(opts.Templates, opts.Settings.MaxTeamSize)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}

	s := &Session{
		id:                id,
		tasks:             opts.Tasks,
		sink:              opts.Sink,
		host:              opts.Host,
		startingSeconds:   opts.StartingSeconds,
		deathmatchSeconds: opts.DeathmatchSeconds,
		stimuli:           make(chan func(), stimulusBuffer),
		done:              make(chan struct{}),
		builder:           NewSettingsBuilder(opts.Settings),
		phase:             PhaseLobby,
		teams:             teams,
		names:             make(map[string]string),
	}
	go s.loop()
	return s, nil
}

// ID returns the world identifier of the session.
func (s *Session) ID() string { return s.id }

// Close stops the session goroutine. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
	})
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool { return s.closed.Load() }

func (s *Session) loop() {
	for {
		select {
		case fn := <-s.stimuli:
			fn()
		case <-s.done:
			return
		}
	}
}

// drain runs every stimulus that is already queued.
func (s *Session) drain() {
	for {
		select {
		case fn := <-s.stimuli:
			fn()
		default:
			return
		}
	}
}

func (s *Session) mustBeAlive() {
	if s.closed.Load() {
		panic(fmt.Sprintf("game: session %q used after it was destroyed", s.id))
	}
}

// do queues fn and waits for its result. A stimulus that was queued before
// ctx was cancelled still runs.
func (s *Session) do(ctx context.Context, fn func() error) error {
	s.mustBeAlive()
	return s.send(ctx, fn)
}

func (s *Session) send(ctx context.Context, fn func() error) error {
	reply := make(chan error, 1)
	select {
	case s.stimuli <- func() { reply <- fn() }:
	case <-s.done:
		return fmt.Errorf("session %s: %w", s.id, ErrNoActiveSession)
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-s.done:
		return fmt.Errorf("session %s: %w", s.id, ErrNoActiveSession)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run feeds ticks from src into the session until ctx is done or the session
// is closed. It stops src before returning.
func (s *Session) Run(ctx context.Context, src timer.Source) {
	defer src.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-src.C():
			if err := s.send(ctx, func() error { s.tick(); return nil }); err != nil {
				return
			}
		}
	}
}

// Tick advances the session by one second.
func (s *Session) Tick(ctx context.Context) error {
	return s.do(ctx, func() error {
		s.tick()
		return nil
	})
}

// Start deals the cards and begins the pre-game countdown.
func (s *Session) Start(ctx context.Context) error {
	return s.do(ctx, s.start)
}

// End stops a running game without a winner.
func (s *Session) End(ctx context.Context) error {
	return s.do(ctx, func() error {
		if !s.phase.Running() {
			return fmt.Errorf("%w: no game is running (phase %s)", ErrInvalidPhaseTransition, s.phase)
		}
		log.Printf("🛑 Session %s ended by admin", s.id)
		s.end(nil)
		return nil
	})
}

// CompleteTask completes a slot of the participant's team card.
func (s *Session) CompleteTask(ctx context.Context, participant string, slot int) (TaskCompletion, error) {
	var out TaskCompletion
	err := s.do(ctx, func() error {
		var err error
		out, err = s.completeSlot(participant, slot)
		return err
	})
	return out, err
}

// Trigger reports that the participant achieved a task. During a game it
// completes the matching slot on the team card; during a deathmatch it wins
// the game when it is the drawn task. ErrTaskNotOnCard means the task does
// not count right now.
func (s *Session) Trigger(ctx context.Context, participant, taskID string) (TaskCompletion, error) {
	var out TaskCompletion
	err := s.do(ctx, func() error {
		var err error
		out, err = s.trigger(participant, taskID)
		return err
	})
	return out, err
}

// Join registers a participant. Joining again updates the display name.
func (s *Session) Join(ctx context.Context, participant, name string) error {
	if participant == "" {
		return fmt.Errorf("participant id must not be empty")
	}
	return s.do(ctx, func() error {
		if name == "" {
			name = participant
		}
		if _, ok := s.names[participant]; !ok {
			s.joinOrder = append(s.joinOrder, participant)
		}
		s.names[participant] = name
		return nil
	})
}

// Leave removes the participant from the session and from their team.
func (s *Session) Leave(ctx context.Context, participant string) error {
	return s.do(ctx, func() error {
		if _, ok := s.names[participant]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownParticipant, participant)
		}
		delete(s.names, participant)
		s.joinOrder = slices.DeleteFunc(s.joinOrder, func(id string) bool { return id == participant })
		s.teams.RemoveMember(participant)
		return nil
	})
}

// SetTeam moves a participant to a team, or off every team with team.None.
// It returns the id of the team joined, which differs from teamID for
// team.Auto.
func (s *Session) SetTeam(ctx context.Context, participant, teamID string) (string, error) {
	var joined string
	err := s.do(ctx, func() error {
		if !s.phase.AllowsTeamChanges() {
			return fmt.Errorf("%w: teams are locked while a game is running", ErrInvalidPhaseTransition)
		}
		if _, ok := s.names[participant]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownParticipant, participant)
		}
		if teamID == team.None {
			s.teams.RemoveMember(participant)
			return nil
		}
		t, err := s.teams.AddMember(participant, teamID)
		if err != nil {
			return err
		}
		joined = t.ID
		return nil
	})
	return joined, err
}

// UpdateSettings applies fn to the lobby settings. The change is rejected
// when the result does not validate. A running game keeps the settings it
// started with.
func (s *Session) UpdateSettings(ctx context.Context, fn func(b *SettingsBuilder) error) (Settings, error) {
	var out Settings
	err := s.do(ctx, func() error {
		b := NewSettingsBuilder(s.builder.View())
		if err := fn(b); err != nil {
			return err
		}
		next := b.View()
		if err := next.Validate(); err != nil {
			return err
		}
		s.builder = b
		if !s.phase.Running() {
			s.teams.SetMaxSize(next.MaxTeamSize)
		}
		out = next
		return nil
	})
	return out, err
}

// Settings returns the lobby settings.
func (s *Session) Settings(ctx context.Context) (Settings, error) {
	var out Settings
	err := s.do(ctx, func() error {
		out = s.builder.View()
		return nil
	})
	return out, err
}

// Snapshot returns a read-only view of the session.
func (s *Session) Snapshot(ctx context.Context) (View, error) {
	var out View
	err := s.do(ctx, func() error {
		out = s.view()
		return nil
	})
	return out, err
}

func (s *Session) start() error {
	if !s.phase.CanStart() {
		return fmt.Errorf("%w: cannot start from %s", ErrInvalidPhaseTransition, s.phase)
	}
	settings := s.builder.View()
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	pool := s.tasks.Pool(settings.Card)
	if len(pool) == 0 {
		return fmt.Errorf("%w: card %q", ErrEmptyPool, settings.Card)
	}
	seed := settings.Seed
	if seed == 0 {
		var err error
		if seed, err = NewSeed(); err != nil {
			return err
		}
	}

	s.teams.Reset()
	s.teams.SetMaxSize(settings.MaxTeamSize)
	active := s.teams.Freeze()
	if len(active) == 0 {
		s.teams.Reset()
		return ErrNoTeams
	}

	goal := -1
	if settings.Mode == card.ModeHotswap {
		goal = settings.HotswapGoal
	}
	cards, err := card.Deal(settings.Mode, pool, seed, settings.Size, len(active), card.DealOptions{
		Excluded:     settings.Excluded,
		Distinct:     settings.DistinctCards,
		WinningScore: goal,
		Expiration:   settings.HotswapExpiration,
		Recovery:     settings.HotswapRecovery,
	})
	if err != nil {
		s.teams.Reset()
		return fmt.Errorf("deal cards: %w", err)
	}
	for i, t := range active {
		t.Card = cards[i]
	}

	s.settings = settings
	s.seed = seed
	s.rng = card.NewRand(seed)
	s.elapsed = 0
	s.winner = ""
	s.dm = nil
	if settings.EnableCountdown {
		s.main = timer.NewCountdown(settings.CountdownMinutes*60, mainMediumThreshold, mainLowThreshold)
	} else {
		s.main = timer.NewCountup()
	}
	s.starting = timer.NewCountdown(s.startingSeconds, 6, 3)
	s.starting.Start()

	log.Printf("🎲 Session %s starting %s %s game with seed %d and %d teams", s.id, settings.Mode.DisplayName(), settings.Size, seed, len(active))
	s.setPhase(PhaseStarting)
	s.sink.OnStartingCountdown(s.id, s.starting.Time())

	info := StartInfo{
		Session:  s.id,
		Teleport: settings.Teleport,
		Kit:      settings.Kit,
		Effects:  settings.Effects,
		Teams:    teamViews(s.teams, active, false),
	}
	go s.host.TeleportToStart(info)
	go s.host.IssueKit(info)
	go s.host.GiveEffects(info)
	return nil
}

func (s *Session) tick() {
	switch s.phase {
	case PhaseStarting:
		t, ok := s.starting.Advance()
		if !ok {
			return
		}
		s.sink.OnStartingCountdown(s.id, t.Value)
		if t.Finished {
			s.main.Start()
			log.Printf("⏰ Session %s is now active", s.id)
			s.setPhase(PhaseActive)
		}

	case PhaseActive:
		t, ok := s.main.Advance()
		if !ok {
			return
		}
		s.elapsed++
		if s.settings.Mode == card.ModeHotswap {
			for _, tm := range s.teams.ActiveTeams() {
				tm.Card.Tick()
			}
		}
		s.sink.OnTimerTick(s.id, t)
		if t.Finished {
			// Completions queued in the same tick take priority over expiry.
			s.drain()
			if s.phase == PhaseActive {
				s.resolveExpiry()
			}
		}

	case PhaseDeathmatch:
		s.advanceDeathmatch()
	}
}

func (s *Session) resolveExpiry() {
	tied := s.teams.TiedForLead()
	log.Printf("⏰ Session %s timer expired with %d teams tied for the lead", s.id, len(tied))

	// Regular games never go to a deathmatch: a tie ends without a winner.
	if s.settings.Mode == card.ModeRegular {
		if len(tied) == 1 {
			s.end(tied[0])
		} else {
			s.end(nil)
		}
		return
	}

	for _, t := range s.teams.ActiveTeams() {
		if !slices.Contains(tied, t) {
			t.OutOfGame = true
		}
	}
	switch len(tied) {
	case 0:
		s.end(nil)
	case 1:
		s.end(tied[0])
	default:
		s.startDeathmatch(tied)
	}
}

func (s *Session) startDeathmatch(tied []*team.Team) {
	s.main.Stop()
	s.dm = &deathmatch{remaining: s.deathmatchSeconds, teams: tied}
	log.Printf("⚔️ Session %s deathmatch between %d teams", s.id, len(tied))
	s.setPhase(PhaseDeathmatch)
	s.sink.OnDeathmatchCountdown(s.id, s.dm.remaining)
}

func (s *Session) advanceDeathmatch() {
	if s.dm == nil || s.dm.task != nil {
		return
	}
	s.dm.remaining--
	if s.dm.remaining > 0 {
		s.sink.OnDeathmatchCountdown(s.id, s.dm.remaining)
		return
	}

	t, ok := s.tasks.RandomTask(s.settings.Card, s.rng, s.settings.Excluded...)
	if !ok {
		log.Printf("❌ Session %s could not draw a deathmatch task from %q", s.id, s.settings.Card)
		s.end(nil)
		return
	}
	s.dm.task = &t
	log.Printf("⚔️ Session %s deathmatch task: %s", s.id, t.DisplayName())
	s.sink.OnDeathmatchStarted(s.id, t, teamViews(s.teams, s.dm.teams, false))
}

func (s *Session) playingTeam(participant string) (*team.Team, error) {
	t, ok := s.teams.TeamOf(participant)
	if !ok || !slices.Contains(s.teams.ActiveTeams(), t) {
		return nil, fmt.Errorf("%w: %s", ErrNotOnTeam, participant)
	}
	if t.OutOfGame {
		return nil, fmt.Errorf("%w: %s", ErrTeamEliminated, t.ID)
	}
	return t, nil
}

func (s *Session) completeSlot(participant string, slot int) (TaskCompletion, error) {
	switch s.phase {
	case PhaseActive:
	case PhaseDeathmatch:
		return TaskCompletion{}, fmt.Errorf("%w: only the deathmatch task counts", ErrInvalidPhaseTransition)
	default:
		return TaskCompletion{}, ErrGameNotActive
	}

	t, err := s.playingTeam(participant)
	if err != nil {
		return TaskCompletion{}, err
	}
	res, err := t.Card.CompleteTask(slot, participant, t.ID, s.elapsed)
	if err != nil {
		return TaskCompletion{}, err
	}
	s.teams.RecordScore(t)

	c := TaskCompletion{
		Task:        res.Task,
		Slot:        res.Index,
		Participant: participant,
		Team:        t.ID,
		Elapsed:     s.elapsed,
		Bingo:       res.Bingo,
	}
	s.sink.OnTaskCompleted(s.id, c)
	s.sink.OnScoreChanged(s.id, teamView(s.teams, t, false))
	if res.Bingo {
		s.end(t)
	}
	return c, nil
}

func (s *Session) trigger(participant, taskID string) (TaskCompletion, error) {
	switch s.phase {
	case PhaseActive:
		t, err := s.playingTeam(participant)
		if err != nil {
			return TaskCompletion{}, err
		}
		idx, ok := t.Card.Find(taskID)
		if !ok {
			return TaskCompletion{}, fmt.Errorf("%w: %s", ErrTaskNotOnCard, taskID)
		}
		return s.completeSlot(participant, idx)

	case PhaseDeathmatch:
		t, err := s.playingTeam(participant)
		if err != nil {
			return TaskCompletion{}, err
		}
		if !slices.Contains(s.dm.teams, t) {
			return TaskCompletion{}, fmt.Errorf("%w: %s", ErrTeamEliminated, t.ID)
		}
		if s.dm.task == nil {
			return TaskCompletion{}, fmt.Errorf("%w: deathmatch task has not been drawn", ErrInvalidPhaseTransition)
		}
		if s.dm.task.ID() != taskID {
			return TaskCompletion{}, fmt.Errorf("%w: %s is not the deathmatch task", ErrTaskNotOnCard, taskID)
		}
		c := TaskCompletion{
			Task:        *s.dm.task,
			Slot:        -1,
			Participant: participant,
			Team:        t.ID,
			Elapsed:     s.elapsed,
			Bingo:       true,
		}
		s.sink.OnTaskCompleted(s.id, c)
		s.end(t)
		return c, nil

	default:
		return TaskCompletion{}, ErrGameNotActive
	}
}

func (s *Session) end(winner *team.Team) {
	if s.starting != nil {
		s.starting.Stop()
	}
	if s.main != nil {
		s.main.Stop()
	}
	s.dm = nil

	result := GameResult{
		Elapsed: s.elapsed,
		Teams:   teamViews(s.teams, s.teams.ActiveTeams(), false),
	}
	if winner != nil {
		v := teamView(s.teams, winner, false)
		s.winner = winner.ID
		result.Winner = &v
		log.Printf("🏆 Session %s won by team %s after %s", s.id, winner.Name, timer.FormatSeconds(s.elapsed))
		s.sink.OnBingo(s.id, v)
	} else {
		log.Printf("🏁 Session %s ended without a winner after %s", s.id, timer.FormatSeconds(s.elapsed))
	}
	s.setPhase(PhaseEnded)
	s.sink.OnGameEnded(s.id, result)
}

func (s *Session) setPhase(p Phase) {
	from := s.phase
	s.phase = p
	s.sink.OnPhaseChanged(s.id, from, p)
}

func (s *Session) view() View {
	v := View{
		ID:       s.id,
		Phase:    s.phase,
		Settings: s.builder.View(),
		Seed:     s.seed,
		Elapsed:  s.elapsed,
		Winner:   s.winner,
	}
	if s.phase != PhaseLobby {
		game := s.settings.clone()
		v.Game = &game
	}
	if s.main != nil {
		v.Time = s.main.Time()
		v.TimeText = timer.FormatSeconds(v.Time)
	}
	if s.phase == PhaseStarting {
		v.Starting = s.starting.Time()
	}

	for _, id := range s.joinOrder {
		p := ParticipantView{ID: id, Name: s.names[id]}
		if t, ok := s.teams.TeamOf(id); ok {
			p.Team = t.ID
		}
		v.Participants = append(v.Participants, p)
	}

	// Cards are only shown for teams that play.
	playing := s.teams.ActiveTeams()
	for _, t := range s.teams.JoinableTeams() {
		withCard := s.phase != PhaseLobby && slices.Contains(playing, t)
		v.Teams = append(v.Teams, teamView(s.teams, t, withCard))
	}

	if s.dm != nil {
		dv := &DeathmatchView{Countdown: s.dm.remaining}
		if s.dm.task != nil {
			drawn := *s.dm.task
			dv.Task = &drawn
		}
		for _, t := range s.dm.teams {
			dv.Teams = append(dv.Teams, t.ID)
		}
		v.Deathmatch = dv
	}
	return v
}
