package bank

import (
	"fmt"

	"dinks/bot/common"
	"dinks/models"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
)

var trackDescriptions = map[models.UpgradeTrack]string{
	models.UpgradeTrackInterest: "+1% daily interest",
	models.UpgradeTrackCapacity: "bigger rob hauls and a higher roll floor",
	models.UpgradeTrackRob:      "harder to rob",
}

func investEmbed(moved decimal.Decimal, account *models.Account) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🏦 Invested",
		Description: fmt.Sprintf("You put **%s** %s into the bank.", common.FormatDinks(moved), common.DinksEmoji),
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Invested", Value: common.FormatDinks(account.Invested), Inline: true},
			{Name: "Profit", Value: common.FormatDinks(account.Profit), Inline: true},
			{Name: "Dinks left", Value: common.FormatDinks(account.Dinks), Inline: true},
		},
	}
}

func claimEmbed(result *models.ClaimResult) *discordgo.MessageEmbed {
	description := fmt.Sprintf("You claimed **%s** %s of profit.", common.FormatDinks(result.ProfitClaimed), common.DinksEmoji)
	if result.PrincipalReturned.IsPositive() {
		description = fmt.Sprintf("You withdrew **%s** %s: %s profit and %s principal.",
			common.FormatDinks(result.Total()), common.DinksEmoji,
			common.FormatDinks(result.ProfitClaimed), common.FormatDinks(result.PrincipalReturned))
	}

	return &discordgo.MessageEmbed{
		Title:       "💰 Claimed",
		Description: description,
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Dinks", Value: common.FormatDinks(result.Account.Dinks), Inline: true},
			{Name: "Still invested", Value: common.FormatDinks(result.Account.BankTotal()), Inline: true},
		},
	}
}

func upgradeEmbed(result *models.UpgradeResult) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "⬆️ Upgrade purchased",
		Description: fmt.Sprintf("**%s** is now level **%d** for %s %s.",
			result.Track, result.NewLevel, common.FormatDinks(result.Price), common.DinksEmoji),
		Color: common.ColorSuccess,
	}
}

func upgradesEmbed(options []models.UpgradeOption) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(options))
	for _, opt := range options {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("%s (level %d)", opt.Track, opt.Level),
			Value: fmt.Sprintf("Next level: **%s** %s\n-# %s",
				common.FormatDinks(opt.NextPrice), common.DinksEmoji, trackDescriptions[opt.Track]),
		})
	}
	return &discordgo.MessageEmbed{
		Title:  "🏦 Bank upgrades",
		Color:  common.ColorPrimary,
		Fields: fields,
	}
}
