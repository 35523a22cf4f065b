package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// UpgradeCurve is the geometric price curve of one bank upgrade track:
// price = floor(BaseCost * GrowthRate ^ level)
type UpgradeCurve struct {
	BaseCost   float64
	GrowthRate float64
}

// SlotSymbol is one reel symbol. Ratios are indexed by appearance count minus one.
type SlotSymbol struct {
	Emoji  string
	Weight int
	Ratios [3]float64
}

// Economy holds every tuning constant of the dinks economy
type Economy struct {
	// Cap bounds dinks + invested + profit + bitcoin value for a single account
	Cap decimal.Decimal
	// Precision is the number of decimal places kept on every stored amount
	Precision int32

	DefaultLevel int

	BaseCapacity   float64
	CapacityGrowth float64

	InterestPerLevel float64

	InterestUpgrade UpgradeCurve
	CapacityUpgrade UpgradeCurve
	RobUpgrade      UpgradeCurve

	RobBaseThreshold  int
	RobDefenseFactor  float64
	RobRollMax        int
	RobFateSides      int
	RobLeaveBehindMax int // fate values strictly below this leave dinks behind
	RobCaughtFate     int
	JailLevelsPerDay  int

	CoinflipMultiplier float64
	DiceMultiplier     float64
	DiceSides          int
	SlotSymbols        []SlotSymbol

	NightlyBase        decimal.Decimal
	NightlyStreakBonus decimal.Decimal

	TransactionRetries int
}

// DefaultEconomy returns the economy used when no override file is configured
func DefaultEconomy() Economy {
	return Economy{
		Cap:       decimal.New(1, 15),
		Precision: 2,

		DefaultLevel: 1,

		BaseCapacity:   200,
		CapacityGrowth: 1.03,

		InterestPerLevel: 0.01,

		InterestUpgrade: UpgradeCurve{BaseCost: 300, GrowthRate: 1.28},
		CapacityUpgrade: UpgradeCurve{BaseCost: 250, GrowthRate: 1.25},
		RobUpgrade:      UpgradeCurve{BaseCost: 176, GrowthRate: 1.18},

		RobBaseThreshold:  50,
		RobDefenseFactor:  0.7,
		RobRollMax:        100,
		RobFateSides:      10,
		RobLeaveBehindMax: 8,
		RobCaughtFate:     9,
		JailLevelsPerDay:  10,

		CoinflipMultiplier: 2,
		DiceMultiplier:     6,
		DiceSides:          6,
		SlotSymbols: []SlotSymbol{
			{Emoji: "🍒", Weight: 30, Ratios: [3]float64{1, 1.5, 3}},
			{Emoji: "🍋", Weight: 25, Ratios: [3]float64{1, 1.75, 4}},
			{Emoji: "🍇", Weight: 20, Ratios: [3]float64{1, 2, 5}},
			{Emoji: "🔔", Weight: 12, Ratios: [3]float64{1.1, 2.5, 8}},
			{Emoji: "⭐", Weight: 8, Ratios: [3]float64{1.2, 3, 15}},
			{Emoji: "💎", Weight: 5, Ratios: [3]float64{1.5, 5, 50}},
		},

		NightlyBase:        decimal.NewFromInt(20),
		NightlyStreakBonus: decimal.NewFromInt(5),

		TransactionRetries: 5,
	}
}

// economyFile mirrors the YAML representation of the economy overrides
type economyFile struct {
	Cap                *string              `yaml:"cap"`
	Precision          *int32               `yaml:"precision"`
	DefaultLevel       *int                 `yaml:"default_level"`
	BaseCapacity       *float64             `yaml:"base_capacity"`
	CapacityGrowth     *float64             `yaml:"capacity_growth"`
	InterestPerLevel   *float64             `yaml:"interest_per_level"`
	Upgrades           map[string]curveFile `yaml:"upgrades"`
	RobBaseThreshold   *int                 `yaml:"rob_base_threshold"`
	RobDefenseFactor   *float64             `yaml:"rob_defense_factor"`
	JailLevelsPerDay   *int                 `yaml:"jail_levels_per_day"`
	CoinflipMultiplier *float64             `yaml:"coinflip_multiplier"`
	DiceMultiplier     *float64             `yaml:"dice_multiplier"`
	SlotSymbols        []slotSymbolFile     `yaml:"slot_symbols"`
	NightlyBase        *string              `yaml:"nightly_base"`
	NightlyStreakBonus *string              `yaml:"nightly_streak_bonus"`
	TransactionRetries *int                 `yaml:"transaction_retries"`
}

type curveFile struct {
	BaseCost   float64 `yaml:"base_cost"`
	GrowthRate float64 `yaml:"growth_rate"`
}

type slotSymbolFile struct {
	Emoji  string    `yaml:"emoji"`
	Weight int       `yaml:"weight"`
	Ratios []float64 `yaml:"ratios"`
}

// LoadEconomy reads economy overrides from a YAML file on top of DefaultEconomy
func LoadEconomy(path string) (Economy, error) {
	file, err := os.Open(path)
	if err != nil {
		return Economy{}, fmt.Errorf("open economy config: %w", err)
	}
	defer file.Close()

	var raw economyFile
	if err := yaml.NewDecoder(file).Decode(&raw); err != nil {
		return Economy{}, fmt.Errorf("decode economy config: %w", err)
	}
	return raw.apply(DefaultEconomy())
}

func (f economyFile) apply(e Economy) (Economy, error) {
	if f.Cap != nil {
		c, err := decimal.NewFromString(*f.Cap)
		if err != nil {
			return Economy{}, fmt.Errorf("invalid cap %q: %w", *f.Cap, err)
		}
		e.Cap = c
	}
	if f.Precision != nil {
		e.Precision = *f.Precision
	}
	if f.DefaultLevel != nil {
		e.DefaultLevel = *f.DefaultLevel
	}
	if f.BaseCapacity != nil {
		e.BaseCapacity = *f.BaseCapacity
	}
	if f.CapacityGrowth != nil {
		e.CapacityGrowth = *f.CapacityGrowth
	}
	if f.InterestPerLevel != nil {
		e.InterestPerLevel = *f.InterestPerLevel
	}
	for track, curve := range f.Upgrades {
		c := UpgradeCurve{BaseCost: curve.BaseCost, GrowthRate: curve.GrowthRate}
		switch track {
		case "interest":
			e.InterestUpgrade = c
		case "capacity":
			e.CapacityUpgrade = c
		case "rob":
			e.RobUpgrade = c
		default:
			return Economy{}, fmt.Errorf("unknown upgrade track %q", track)
		}
	}
	if f.RobBaseThreshold != nil {
		e.RobBaseThreshold = *f.RobBaseThreshold
	}
	if f.RobDefenseFactor != nil {
		e.RobDefenseFactor = *f.RobDefenseFactor
	}
	if f.JailLevelsPerDay != nil {
		e.JailLevelsPerDay = *f.JailLevelsPerDay
	}
	if f.CoinflipMultiplier != nil {
		e.CoinflipMultiplier = *f.CoinflipMultiplier
	}
	if f.DiceMultiplier != nil {
		e.DiceMultiplier = *f.DiceMultiplier
	}
	if len(f.SlotSymbols) > 0 {
		symbols := make([]SlotSymbol, 0, len(f.SlotSymbols))
		for _, s := range f.SlotSymbols {
			if len(s.Ratios) != 3 {
				return Economy{}, fmt.Errorf("slot symbol %s needs exactly 3 ratios", s.Emoji)
			}
			if s.Weight <= 0 {
				return Economy{}, fmt.Errorf("slot symbol %s needs a positive weight", s.Emoji)
			}
			symbols = append(symbols, SlotSymbol{
				Emoji:  s.Emoji,
				Weight: s.Weight,
				Ratios: [3]float64{s.Ratios[0], s.Ratios[1], s.Ratios[2]},
			})
		}
		e.SlotSymbols = symbols
	}
	if f.NightlyBase != nil {
		v, err := decimal.NewFromString(*f.NightlyBase)
		if err != nil {
			return Economy{}, fmt.Errorf("invalid nightly_base %q: %w", *f.NightlyBase, err)
		}
		e.NightlyBase = v
	}
	if f.NightlyStreakBonus != nil {
		v, err := decimal.NewFromString(*f.NightlyStreakBonus)
		if err != nil {
			return Economy{}, fmt.Errorf("invalid nightly_streak_bonus %q: %w", *f.NightlyStreakBonus, err)
		}
		e.NightlyStreakBonus = v
	}
	if f.TransactionRetries != nil {
		e.TransactionRetries = *f.TransactionRetries
	}
	if err := e.Validate(); err != nil {
		return Economy{}, err
	}
	return e, nil
}

// Validate rejects values that would make a formula divide by zero, shrink
// with level, or overflow the amount bounds.
func (e Economy) Validate() error {
	switch {
	case e.Cap.Exponent() > 18 || e.Cap.Exponent() < -18 || !e.Cap.IsPositive() || e.Cap.GreaterThan(decimal.New(1, 18)):
		return fmt.Errorf("cap must be positive and at most 1e18, got %s", e.Cap)
	case e.Precision < 0 || e.Precision > 8:
		return fmt.Errorf("precision must be between 0 and 8, got %d", e.Precision)
	case e.DefaultLevel < 0:
		return fmt.Errorf("default_level must not be negative, got %d", e.DefaultLevel)
	case e.BaseCapacity <= 0:
		return fmt.Errorf("base_capacity must be positive, got %v", e.BaseCapacity)
	case e.CapacityGrowth < 1:
		return fmt.Errorf("capacity_growth must be at least 1, got %v", e.CapacityGrowth)
	case e.InterestPerLevel < 0:
		return fmt.Errorf("interest_per_level must not be negative, got %v", e.InterestPerLevel)
	case e.RobBaseThreshold < 0:
		return fmt.Errorf("rob_base_threshold must not be negative, got %d", e.RobBaseThreshold)
	case e.RobDefenseFactor < 0:
		return fmt.Errorf("rob_defense_factor must not be negative, got %v", e.RobDefenseFactor)
	case e.RobRollMax <= 0:
		return fmt.Errorf("rob roll maximum must be positive, got %d", e.RobRollMax)
	case e.RobFateSides <= 0:
		return fmt.Errorf("rob fate sides must be positive, got %d", e.RobFateSides)
	case e.JailLevelsPerDay <= 0:
		return fmt.Errorf("jail_levels_per_day must be positive, got %d", e.JailLevelsPerDay)
	case e.CoinflipMultiplier <= 0:
		return fmt.Errorf("coinflip_multiplier must be positive, got %v", e.CoinflipMultiplier)
	case e.DiceMultiplier <= 0:
		return fmt.Errorf("dice_multiplier must be positive, got %v", e.DiceMultiplier)
	case e.DiceSides <= 0:
		return fmt.Errorf("dice sides must be positive, got %d", e.DiceSides)
	case len(e.SlotSymbols) == 0:
		return fmt.Errorf("at least one slot symbol is required")
	case e.NightlyBase.IsNegative() || e.NightlyStreakBonus.IsNegative():
		return fmt.Errorf("nightly rewards must not be negative")
	case e.TransactionRetries < 0:
		return fmt.Errorf("transaction_retries must not be negative, got %d", e.TransactionRetries)
	}

	curves := map[string]UpgradeCurve{
		"interest": e.InterestUpgrade,
		"capacity": e.CapacityUpgrade,
		"rob":      e.RobUpgrade,
	}
	for track, c := range curves {
		if c.BaseCost <= 0 || c.GrowthRate < 1 {
			return fmt.Errorf("upgrade %s needs base_cost > 0 and growth_rate >= 1", track)
		}
	}
	for _, s := range e.SlotSymbols {
		for _, r := range s.Ratios {
			if r <= 0 {
				return fmt.Errorf("slot symbol %s needs positive ratios", s.Emoji)
			}
		}
	}
	return nil
}
