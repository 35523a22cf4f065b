package bank

import (
	"testing"

	"dinks/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimEmbed(t *testing.T) {
	account := &models.Account{Dinks: decimal.NewFromInt(1005), Invested: decimal.Zero, Profit: decimal.Zero}

	partial := claimEmbed(&models.ClaimResult{
		ProfitClaimed:     decimal.NewFromInt(5),
		PrincipalReturned: decimal.Zero,
		Account:           account,
	})
	assert.Contains(t, partial.Description, "claimed **5**")

	full := claimEmbed(&models.ClaimResult{
		ProfitClaimed:     decimal.NewFromInt(5),
		PrincipalReturned: decimal.NewFromInt(500),
		Account:           account,
	})
	assert.Contains(t, full.Description, "withdrew **505**")
	assert.Equal(t, "0", full.Fields[1].Value)
}

func TestUpgradesEmbed(t *testing.T) {
	embed := upgradesEmbed([]models.UpgradeOption{
		{Track: models.UpgradeTrackInterest, Level: 1, NextPrice: decimal.NewFromInt(384)},
		{Track: models.UpgradeTrackCapacity, Level: 1, NextPrice: decimal.NewFromInt(312)},
		{Track: models.UpgradeTrackRob, Level: 2, NextPrice: decimal.NewFromInt(245)},
	})

	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "interest (level 1)", embed.Fields[0].Name)
	assert.Contains(t, embed.Fields[0].Value, "**384**")
	assert.Equal(t, "rob (level 2)", embed.Fields[2].Name)
}

func TestUpgradeEmbed(t *testing.T) {
	embed := upgradeEmbed(&models.UpgradeResult{Track: models.UpgradeTrackRob, NewLevel: 2, Price: decimal.NewFromInt(207)})
	assert.Contains(t, embed.Description, "**rob** is now level **2** for 207")
}
