package bank

import (
	"context"
	"strings"

	"dinks/bot/common"
	"dinks/models"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
)

func (f *Feature) handleInvest(s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	userID, err := common.InvokerUserID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	amount, err := common.ResolveAmount(common.StringOption(options, "amount"), func() (decimal.Decimal, error) {
		account, err := f.ledger.GetBalance(ctx, userID)
		if err != nil {
			return decimal.Zero, err
		}
		return account.Dinks, nil
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	moved, account, err := f.bank.Invest(ctx, userID, amount)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, investEmbed(moved, account), false)
}

func (f *Feature) handleClaim(s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	userID, err := common.InvokerUserID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	input := common.StringOption(options, "amount")
	if input == "" || strings.EqualFold(strings.TrimSpace(input), common.AmountAll) {
		result, err := f.bank.ClaimAll(ctx, userID)
		if err != nil {
			common.HandleError(s, i, err, false)
			return
		}
		common.RespondWithEmbed(s, i, claimEmbed(result), false)
		return
	}

	amount, err := common.ResolveAmount(input, func() (decimal.Decimal, error) {
		account, err := f.ledger.GetBalance(ctx, userID)
		if err != nil {
			return decimal.Zero, err
		}
		return account.Profit, nil
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	result, err := f.bank.Claim(ctx, userID, amount)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, claimEmbed(result), false)
}

func (f *Feature) handleUpgrade(s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	userID, err := common.InvokerUserID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	track := models.UpgradeTrack(strings.ToLower(common.StringOption(options, "track")))
	result, err := f.bank.Upgrade(ctx, userID, track)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, upgradeEmbed(result), false)
}

func (f *Feature) handleUpgrades(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, err := common.InvokerUserID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	upgrades, err := f.bank.Upgrades(ctx, userID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, upgradesEmbed(upgrades), true)
}
