package game

import (
	"fmt"
	"slices"
	"strings"

	"bingoreloaded/internal/card"
	"bingoreloaded/internal/task"
)

// Effects is a set of potion-style effects handed to participants at start.
type Effects uint8

const (
	EffectNightVision Effects = 1 << iota
	EffectWaterBreathing
	EffectFireResistance
	EffectNoFallDamage
	EffectCardSpeed
	EffectKeepInventory

	EffectsNone Effects = 0
	EffectsAll          = EffectNightVision | EffectWaterBreathing | EffectFireResistance |
		EffectNoFallDamage | EffectCardSpeed | EffectKeepInventory
)

var effectNames = []struct {
	flag Effects
	name string
}{
	{EffectNightVision, "night_vision"},
	{EffectWaterBreathing, "water_breathing"},
	{EffectFireResistance, "fire_resistance"},
	{EffectNoFallDamage, "no_fall_damage"},
	{EffectCardSpeed, "card_speed"},
	{EffectKeepInventory, "keep_inventory"},
}

// ParseEffect parses a single effect name such as "night_vision".
func ParseEffect(s string) (Effects, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, e := range effectNames {
		if e.name == name {
			return e.flag, nil
		}
	}
	return 0, fmt.Errorf("invalid effect %q", s)
}

// Has reports whether every flag in f is set.
func (e Effects) Has(f Effects) bool { return e&f == f }

// Names lists the enabled effects.
func (e Effects) Names() []string {
	var names []string
	for _, n := range effectNames {
		if e.Has(n.flag) {
			names = append(names, n.name)
		}
	}
	return names
}

func (e Effects) String() string {
	if e == EffectsNone {
		return "none"
	}
	return strings.Join(e.Names(), ",")
}

// Kit identifies the starting inventory handed out by the host.
type Kit string

const (
	KitHardcore    Kit = "hardcore"
	KitNormal      Kit = "normal"
	KitOverpowered Kit = "overpowered"
	KitReloaded    Kit = "reloaded"
	KitCustom1     Kit = "custom_1"
	KitCustom2     Kit = "custom_2"
	KitCustom3     Kit = "custom_3"
	KitCustom4     Kit = "custom_4"
	KitCustom5     Kit = "custom_5"
)

var kits = []Kit{KitHardcore, KitNormal, KitOverpowered, KitReloaded, KitCustom1, KitCustom2, KitCustom3, KitCustom4, KitCustom5}

// ParseKit parses a kit name. Unknown names are rejected.
func ParseKit(s string) (Kit, error) {
	k := Kit(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(kits, k) {
		return k, nil
	}
	return "", fmt.Errorf("invalid kit %q", s)
}

// Teleport selects how participants are spread over the world at start.
type Teleport string

const (
	TeleportAlone Teleport = "alone"
	TeleportTeam  Teleport = "team"
	TeleportAll   Teleport = "all"
)

// ParseTeleport parses a teleport strategy.
func ParseTeleport(s string) (Teleport, error) {
	switch t := Teleport(strings.ToLower(strings.TrimSpace(s))); t {
	case TeleportAlone, TeleportTeam, TeleportAll:
		return t, nil
	}
	return "", fmt.Errorf("invalid teleport strategy %q", s)
}

// Settings is the configuration snapshot a game runs with.
type Settings struct {
	Mode              card.Mode   `json:"mode" yaml:"mode"`
	Size              card.Size   `json:"size" yaml:"size"`
	Effects           Effects     `json:"effects" yaml:"effects"`
	Kit               Kit         `json:"kit" yaml:"kit"`
	Card              string      `json:"card" yaml:"card"`
	Seed              int64       `json:"seed" yaml:"seed"`
	EnableCountdown   bool        `json:"enableCountdown" yaml:"enable_countdown"`
	CountdownMinutes  int         `json:"countdownMinutes" yaml:"countdown_minutes"`
	MaxTeamSize       int         `json:"maxTeamSize" yaml:"max_team_size"`
	Teleport          Teleport    `json:"teleport" yaml:"teleport"`
	HotswapGoal       int         `json:"hotswapGoal" yaml:"hotswap_goal"`
	HotswapExpiration int         `json:"hotswapExpiration" yaml:"hotswap_expiration"`
	HotswapRecovery   int         `json:"hotswapRecovery" yaml:"hotswap_recovery"`
	DistinctCards     bool        `json:"distinctCards" yaml:"distinct_cards"`
	Excluded          []task.Kind `json:"excluded,omitempty" yaml:"excluded,omitempty"`
}

// DefaultSettings returns the settings a new session starts with.
func DefaultSettings() Settings {
	return Settings{
		Mode:              card.ModeRegular,
		Size:              card.Size5,
		Effects:           EffectNightVision | EffectWaterBreathing | EffectFireResistance | EffectCardSpeed,
		Kit:               KitNormal,
		Card:              "default_card",
		EnableCountdown:   false,
		CountdownMinutes:  20,
		MaxTeamSize:       4,
		Teleport:          TeleportAll,
		HotswapGoal:       10,
		HotswapExpiration: 5 * 60,
		HotswapRecovery:   60,
	}
}

// Validate checks that a game can be generated from the settings.
func (s Settings) Validate() error {
	if _, err := card.ParseMode(string(s.Mode)); err != nil {
		return err
	}
	if !s.Size.Valid() {
		return fmt.Errorf("card size must be 3 or 5, got %d", s.Size)
	}
	if s.Effects&^EffectsAll != 0 {
		return fmt.Errorf("unknown effect flags %b", s.Effects)
	}
	if _, err := ParseKit(string(s.Kit)); err != nil {
		return err
	}
	if _, err := ParseTeleport(string(s.Teleport)); err != nil {
		return err
	}
	if s.Card == "" {
		return fmt.Errorf("card name must not be empty")
	}
	if s.EnableCountdown && s.CountdownMinutes < 1 {
		return fmt.Errorf("countdown duration must be at least 1 minute, got %d", s.CountdownMinutes)
	}
	if s.MaxTeamSize < 1 || s.MaxTeamSize > 64 {
		return fmt.Errorf("max team size must be between 1 and 64, got %d", s.MaxTeamSize)
	}
	if s.Mode == card.ModeHotswap {
		if s.HotswapGoal == 0 || s.HotswapGoal < -1 {
			return fmt.Errorf("hotswap goal must be -1 or positive, got %d", s.HotswapGoal)
		}
		if s.HotswapGoal > s.Size.Slots() {
			return fmt.Errorf("hotswap goal %d exceeds the %d slots of a %s card", s.HotswapGoal, s.Size.Slots(), s.Size)
		}
		if s.HotswapGoal == -1 && !s.EnableCountdown {
			return fmt.Errorf("hotswap without a goal needs the countdown enabled")
		}
		if s.HotswapExpiration < 1 || s.HotswapRecovery < 1 {
			return fmt.Errorf("hotswap expiration and recovery must be at least 1 second")
		}
	}
	return nil
}

func (s Settings) clone() Settings {
	s.Excluded = slices.Clone(s.Excluded)
	return s
}

// SettingsBuilder collects lobby edits. A running game never sees them: it
// works on the View captured at start.
type SettingsBuilder struct {
	s Settings
}

// NewSettingsBuilder starts from base.
func NewSettingsBuilder(base Settings) *SettingsBuilder {
	return &SettingsBuilder{s: base.clone()}
}

// View returns an independent snapshot of the current settings.
func (b *SettingsBuilder) View() Settings { return b.s.clone() }

// FromOther replaces every setting, as when loading a preset.
func (b *SettingsBuilder) FromOther(s Settings) *SettingsBuilder {
	b.s = s.clone()
	return b
}

func (b *SettingsBuilder) Mode(m card.Mode) *SettingsBuilder {
	b.s.Mode = m
	return b
}

func (b *SettingsBuilder) Size(size card.Size) *SettingsBuilder {
	b.s.Size = size
	return b
}

func (b *SettingsBuilder) Kit(k Kit) *SettingsBuilder {
	b.s.Kit = k
	return b
}

func (b *SettingsBuilder) Effects(e Effects) *SettingsBuilder {
	b.s.Effects = e
	return b
}

// ToggleEffect switches a single effect on or off.
func (b *SettingsBuilder) ToggleEffect(e Effects, enable bool) *SettingsBuilder {
	if enable {
		b.s.Effects |= e
	} else {
		b.s.Effects &^= e
	}
	return b
}

func (b *SettingsBuilder) Card(name string) *SettingsBuilder {
	b.s.Card = name
	return b
}

func (b *SettingsBuilder) Seed(seed int64) *SettingsBuilder {
	b.s.Seed = seed
	return b
}

func (b *SettingsBuilder) EnableCountdown(enable bool) *SettingsBuilder {
	b.s.EnableCountdown = enable
	return b
}

func (b *SettingsBuilder) CountdownMinutes(minutes int) *SettingsBuilder {
	b.s.CountdownMinutes = minutes
	return b
}

func (b *SettingsBuilder) MaxTeamSize(n int) *SettingsBuilder {
	b.s.MaxTeamSize = n
	return b
}

func (b *SettingsBuilder) Teleport(t Teleport) *SettingsBuilder {
	b.s.Teleport = t
	return b
}

// Hotswap sets the goal and the expiration/recovery cycle in seconds.
func (b *SettingsBuilder) Hotswap(goal, expiration, recovery int) *SettingsBuilder {
	b.s.HotswapGoal = goal
	b.s.HotswapExpiration = expiration
	b.s.HotswapRecovery = recovery
	return b
}

func (b *SettingsBuilder) DistinctCards(distinct bool) *SettingsBuilder {
	b.s.DistinctCards = distinct
	return b
}

func (b *SettingsBuilder) Exclude(kinds ...task.Kind) *SettingsBuilder {
	b.s.Excluded = slices.Clone(kinds)
	return b
}
