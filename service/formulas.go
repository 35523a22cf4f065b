package service

import (
	"math"

	"dinks/config"
	"dinks/models"

	"github.com/shopspring/decimal"
)

// Capacity is the most a rob at this capacity level can take
func Capacity(e config.Economy, level int) decimal.Decimal {
	c := e.BaseCapacity
	for i := 0; i < level; i++ {
		c *= e.CapacityGrowth
	}
	return decimal.NewFromFloat(c).Round(0)
}

// UpgradePrice is the cost of going from level to level+1 on a curve
func UpgradePrice(curve config.UpgradeCurve, level int) decimal.Decimal {
	return decimal.NewFromFloat(math.Floor(curve.BaseCost * math.Pow(curve.GrowthRate, float64(level))))
}

func upgradeCurve(e config.Economy, track models.UpgradeTrack) (config.UpgradeCurve, bool) {
	switch track {
	case models.UpgradeTrackInterest:
		return e.InterestUpgrade, true
	case models.UpgradeTrackCapacity:
		return e.CapacityUpgrade, true
	case models.UpgradeTrackRob:
		return e.RobUpgrade, true
	}
	return config.UpgradeCurve{}, false
}

// RobThreshold is the roll a robber has to beat against a target's rob level
func RobThreshold(e config.Economy, robLevel int) int {
	return e.RobBaseThreshold + int(math.Round(float64(robLevel)*e.RobDefenseFactor))
}

// JailDays is the sentence length for an attacker at the given capacity level
func JailDays(e config.Economy, capacityLevel int) int {
	return 1 + capacityLevel/e.JailLevelsPerDay
}

// InterestMultiplier is 1 + level * interest_per_level
func InterestMultiplier(e config.Economy, level int) decimal.Decimal {
	perLevel := decimal.NewFromFloat(e.InterestPerLevel)
	return decimal.NewFromInt(1).Add(perLevel.Mul(decimal.NewFromInt(int64(level))))
}

// AccruedProfit is the profit after one day of interest, before the cap
func AccruedProfit(e config.Economy, a *models.Account) decimal.Decimal {
	grown := a.BankTotal().Mul(InterestMultiplier(e, a.InterestLevel))
	return money(e, a.Profit.Add(grown.Sub(a.Invested)))
}

// Headroom is how much more value the account may hold before the cap
func Headroom(e config.Economy, a *models.Account, bitcoinPrice decimal.Decimal) decimal.Decimal {
	room := e.Cap.Sub(a.CappedValue(bitcoinPrice))
	if room.IsNegative() {
		return decimal.Zero
	}
	return money(e, room)
}

// clampCredit limits a credit to the account's headroom
func clampCredit(e config.Economy, a *models.Account, bitcoinPrice, amount decimal.Decimal) decimal.Decimal {
	return decimal.Min(amount, Headroom(e, a, bitcoinPrice))
}

// SlotsMultiplier multiplies, over every distinct symbol in the draw, the
// ratio indexed by how often it appeared. An all-distinct draw loses.
func SlotsMultiplier(symbols []config.SlotSymbol, reels []int) (decimal.Decimal, bool) {
	counts := make(map[int]int, len(reels))
	for _, r := range reels {
		counts[r]++
	}
	if len(counts) == len(reels) {
		return decimal.Zero, false
	}

	multiplier := decimal.NewFromInt(1)
	for symbol, count := range counts {
		ratio := symbols[symbol].Ratios[count-1]
		multiplier = multiplier.Mul(decimal.NewFromFloat(ratio))
	}
	return multiplier, true
}

// money truncates an amount to the economy's precision
func money(e config.Economy, d decimal.Decimal) decimal.Decimal {
	return d.Truncate(e.Precision)
}

// Bounds on the decimal representation of any amount entering arithmetic.
// Comparing or truncating a decimal rescales its coefficient, so an
// exponent in the billions must be refused before it is touched.
const (
	maxAmountIntegerDigits  = 19
	maxAmountFractionDigits = 18
)

// CheckAmountMagnitude fails with ErrInvalidAmount when amount has more
// integer or fractional digits than any balance can carry.
func CheckAmountMagnitude(amount decimal.Decimal) error {
	exp := amount.Exponent()
	if exp > maxAmountIntegerDigits || exp < -maxAmountFractionDigits {
		return ErrInvalidAmount
	}
	if amount.NumDigits()+int(exp) > maxAmountIntegerDigits {
		return ErrInvalidAmount
	}
	return nil
}

// validAmount rejects zero, negative, sub-precision and above-cap amounts
func validAmount(e config.Economy, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := CheckAmountMagnitude(amount); err != nil {
		return decimal.Zero, err
	}
	amount = money(e, amount)
	if !amount.IsPositive() || amount.GreaterThan(e.Cap) {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}
