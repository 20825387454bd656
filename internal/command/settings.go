package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"bingoreloaded/internal/card"
	"bingoreloaded/internal/game"
	"bingoreloaded/internal/task"
)

// Setting keys accepted by SetSetting.
const (
	KeyKit               = "kit"
	KeyEffects           = "effects"
	KeyCard              = "card"
	KeyCountdown         = "countdown"
	KeyDuration          = "duration"
	KeyTeamSize          = "teamsize"
	KeyGamemode          = "gamemode"
	KeyTeleport          = "teleport"
	KeyHotswapGoal       = "hotswap_goal"
	KeyHotswapExpiration = "hotswap_expiration"
	KeyHotswapRecovery   = "hotswap_recovery"
	KeyDistinct          = "distinct"
	KeyExclude           = "exclude"
	KeySeed              = "seed"
)

// Keys lists every setting key.
var Keys = []string{
	KeyKit, KeyEffects, KeyCard, KeyCountdown, KeyDuration, KeyTeamSize, KeyGamemode,
	KeyTeleport, KeyHotswapGoal, KeyHotswapExpiration, KeyHotswapRecovery, KeyDistinct,
	KeyExclude, KeySeed,
}

type settingFunc func(s *Service, b *game.SettingsBuilder, args []string) (string, error)

var setters = map[string]settingFunc{
	KeyKit:               setKit,
	KeyEffects:           setEffects,
	KeyCard:              setCard,
	KeyCountdown:         setCountdown,
	KeyDuration:          setDuration,
	KeyTeamSize:          setTeamSize,
	KeyGamemode:          setGamemode,
	KeyTeleport:          setTeleport,
	KeyHotswapGoal:       setHotswap(KeyHotswapGoal),
	KeyHotswapExpiration: setHotswap(KeyHotswapExpiration),
	KeyHotswapRecovery:   setHotswap(KeyHotswapRecovery),
	KeyDistinct:          setDistinct,
	KeyExclude:           setExclude,
	KeySeed:              setSeed,
}

// SetSetting changes one lobby setting of a world. The change is applied
// only when the resulting settings are valid.
func (s *Service) SetSetting(ctx context.Context, world, key string, args []string) Result {
	set, found := setters[strings.ToLower(key)]
	if !found {
		return failed("Unknown setting %q", key)
	}
	return s.guard(key, world, func(session *game.Session) Result {
		var message string
		_, err := session.UpdateSettings(ctx, func(b *game.SettingsBuilder) error {
			m, err := set(s, b, args)
			message = m
			return err
		})
		if err != nil {
			return failed("%s", reason(err))
		}
		return ok("%s", message)
	})
}

func expectArgs(args []string, min int) error {
	if len(args) < min {
		return fmt.Errorf("expected at least %d argument(s)", min)
	}
	return nil
}

// toInt parses a number, falling back to def when it is not one.
func toInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func parseBool(s string) (bool, error) {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("expected true or false, got %q", s)
	}
	return v, nil
}

func setKit(_ *Service, b *game.SettingsBuilder, args []string) (string, error) {
	if err := expectArgs(args, 1); err != nil {
		return "", err
	}
	kit, err := game.ParseKit(args[0])
	if err != nil {
		return "", err
	}
	b.Kit(kit)
	return fmt.Sprintf("Kit set to %s", kit), nil
}

// setEffects accepts "all", "none" or "<effect> [true|false]". A single
// effect is enabled unless the second argument is "false".
func setEffects(_ *Service, b *game.SettingsBuilder, args []string) (string, error) {
	if err := expectArgs(args, 1); err != nil {
		return "", err
	}
	switch strings.ToLower(args[0]) {
	case "all":
		b.Effects(game.EffectsAll)
	case "none":
		b.Effects(game.EffectsNone)
	default:
		effect, err := game.ParseEffect(args[0])
		if err != nil {
			return "", err
		}
		enable := !(len(args) > 1 && strings.EqualFold(args[1], "false"))
		b.ToggleEffect(effect, enable)
	}
	return fmt.Sprintf("Updated active effects to %s", b.View().Effects), nil
}

// setCard accepts "<name> [seed]". A missing or unparsable seed means a
// random one.
func setCard(s *Service, b *game.SettingsBuilder, args []string) (string, error) {
	if err := expectArgs(args, 1); err != nil {
		return "", err
	}
	name := args[0]
	if s.cards != nil && !s.cards.HasCard(name) {
		return "", fmt.Errorf("no card named '%s' was found", name)
	}
	seed := 0
	if len(args) > 1 {
		seed = toInt(args[1], 0)
	}
	b.Card(name).Seed(int64(seed))
	if seed == 0 {
		return fmt.Sprintf("Playing card set to %s with no seed", name), nil
	}
	return fmt.Sprintf("Playing card set to %s with seed %d", name, seed), nil
}

func setCountdown(_ *Service, b *game.SettingsBuilder, args []string) (string, error) {
	if err := expectArgs(args, 1); err != nil {
		return "", err
	}
	enable, err := parseBool(args[0])
	if err != nil {
		return "", err
	}
	b.EnableCountdown(enable)
	if enable {
		return "Enabled countdown mode", nil
	}
	return "Disabled countdown mode", nil
}

func setDuration(_ *Service, b *game.SettingsBuilder, args []string) (string, error) {
	if err := expectArgs(args, 1); err != nil {
		return "", err
	}
	minutes := toInt(args[0], 0)
	if minutes <= 0 {
		return "", fmt.Errorf("cannot set duration to %s", args[0])
	}
	b.CountdownMinutes(minutes)
	return fmt.Sprintf("Set game duration for countdown mode to %d minutes", minutes), nil
}

// setTeamSize clamps the size to 1..64.
func setTeamSize(_ *Service, b *game.SettingsBuilder, args []string) (string, error) {
	if err := expectArgs(args, 1); err != nil {
		return "", err
	}
	size := min(64, max(1, toInt(args[0], 1)))
	b.MaxTeamSize(size)
	return fmt.Sprintf("Set maximum team size to %d players", size), nil
}

// setGamemode accepts "<mode> [3|5]". The size is 5 unless "3" is given.
func setGamemode(_ *Service, b *game.SettingsBuilder, args []string) (string, error) {
	if err := expectArgs(args, 1); err != nil {
		return "", err
	}
	mode, err := card.ParseMode(args[0])
	if err != nil {
		return "", fmt.Errorf("cannot set gamemode to '%s', unknown gamemode", args[0])
	}
	size := card.Size5
	if len(args) > 1 && strings.TrimSpace(args[1]) == "3" {
		size = card.Size3
	}
	b.Mode(mode).Size(size)
	if v := b.View(); mode == card.ModeHotswap && v.HotswapGoal > size.Slots() {
		b.Hotswap(size.Slots(), v.HotswapExpiration, v.HotswapRecovery)
	}
	return fmt.Sprintf("Set gamemode to %s %s", mode.DisplayName(), size), nil
}

func setTeleport(_ *Service, b *game.SettingsBuilder, args []string) (string, error) {
	if err := expectArgs(args, 1); err != nil {
		return "", err
	}
	tp, err := game.ParseTeleport(args[0])
	if err != nil {
		return "", err
	}
	b.Teleport(tp)
	return fmt.Sprintf("Teleport set to %s", tp), nil
}

func setHotswap(key string) settingFunc {
	return func(_ *Service, b *game.SettingsBuilder, args []string) (string, error) {
		if err := expectArgs(args, 1); err != nil {
			return "", err
		}
		n, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			return "", fmt.Errorf("expected a number, got %q", args[0])
		}
		v := b.View()
		goal, exp, rec := v.HotswapGoal, v.HotswapExpiration, v.HotswapRecovery
		switch key {
		case KeyHotswapGoal:
			goal = n
		case KeyHotswapExpiration:
			exp = n
		case KeyHotswapRecovery:
			rec = n
		}
		b.Hotswap(goal, exp, rec)
		return fmt.Sprintf("Set %s to %d", key, n), nil
	}
}

func setDistinct(_ *Service, b *game.SettingsBuilder, args []string) (string, error) {
	if err := expectArgs(args, 1); err != nil {
		return "", err
	}
	distinct, err := parseBool(args[0])
	if err != nil {
		return "", err
	}
	b.DistinctCards(distinct)
	if distinct {
		return "Teams get distinct cards", nil
	}
	return "Teams share the same tasks", nil
}

// setExclude accepts task kinds to leave out of generated cards, or "none".
func setExclude(_ *Service, b *game.SettingsBuilder, args []string) (string, error) {
	if err := expectArgs(args, 1); err != nil {
		return "", err
	}
	if len(args) == 1 && strings.EqualFold(args[0], "none") {
		b.Exclude()
		return "No task kinds are excluded", nil
	}
	kinds := make([]task.Kind, 0, len(args))
	for _, a := range args {
		switch k := task.Kind(strings.ToLower(strings.TrimSpace(a))); k {
		case task.KindItem, task.KindAdvancement, task.KindStatistic:
			kinds = append(kinds, k)
		default:
			return "", fmt.Errorf("unknown task kind %q", a)
		}
	}
	b.Exclude(kinds...)
	return fmt.Sprintf("Excluded task kinds: %s", strings.Join(args, ", ")), nil
}

func setSeed(_ *Service, b *game.SettingsBuilder, args []string) (string, error) {
	if err := expectArgs(args, 1); err != nil {
		return "", err
	}
	seed, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil {
		return "", fmt.Errorf("expected a number, got %q", args[0])
	}
	b.Seed(seed)
	if seed == 0 {
		return "Cards will use a random seed", nil
	}
	return fmt.Sprintf("Card seed set to %d", seed), nil
}
