package admin

import (
	"fmt"

	"dinks/bot/common"
	"dinks/models"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
)

func adjustmentEmbed(userID int64, amount, balance decimal.Decimal, credit bool) *discordgo.MessageEmbed {
	title, verb, color := "➕ Dinks granted", "received", common.ColorSuccess
	if !credit {
		title, verb, color = "➖ Dinks taken", "lost", common.ColorWarning
	}
	return &discordgo.MessageEmbed{
		Title: title,
		Description: fmt.Sprintf("%s %s up to **%s** %s.",
			common.GetUserMention(userID), verb, common.FormatDinks(amount), common.DinksEmoji),
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "New balance", Value: fmt.Sprintf("%s %s", common.FormatDinks(balance), common.DinksEmoji), Inline: true},
		},
	}
}

func jailEmbed(record *models.PrisonRecord) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⛓️ Locked up",
		Description: fmt.Sprintf("%s was sent to prison by the authorities.", common.GetUserMention(record.UserID)),
		Color:       common.ColorDanger,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Bail", Value: fmt.Sprintf("%s %s", common.FormatDinks(record.Debt), common.DinksEmoji), Inline: true},
			{Name: "Days", Value: fmt.Sprintf("%d", record.DaysRemaining), Inline: true},
		},
	}
}
