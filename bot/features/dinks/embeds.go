package dinks

import (
	"fmt"
	"strings"
	"time"

	"dinks/bot/common"
	"dinks/models"
	"dinks/service"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
)

func balanceEmbed(name string, account *models.Account, bitcoinPrice decimal.Decimal) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Dinks", Value: fmt.Sprintf("%s %s", common.FormatDinks(account.Dinks), common.DinksEmoji), Inline: true},
		{Name: "Invested", Value: common.FormatDinks(account.Invested), Inline: true},
		{Name: "Profit", Value: common.FormatDinks(account.Profit), Inline: true},
	}

	if account.Bitcoins.IsPositive() {
		value := common.FormatCoins(account.Bitcoins) + " " + common.BitcoinEmoji
		if bitcoinPrice.IsPositive() {
			value += fmt.Sprintf(" (≈ %s)", common.FormatDinks(account.Bitcoins.Mul(bitcoinPrice)))
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Bitcoin", Value: value, Inline: true})
	}

	fields = append(fields, &discordgo.MessageEmbedField{
		Name: "Levels",
		Value: fmt.Sprintf("Interest %d · Capacity %d · Rob %d",
			account.InterestLevel, account.CapacityLevel, account.RobLevel),
	})

	return &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("%s's dinks", name),
		Color:  common.ColorPrimary,
		Fields: fields,
	}
}

func leaderboardEmbed(entries []*models.LeaderboardEntry) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🏆 Dinks Leaderboard",
		Color: common.ColorGold,
	}
	if len(entries) == 0 {
		embed.Description = "Nobody has any dinks yet."
		return embed
	}

	var sb strings.Builder
	for _, e := range entries {
		medal := fmt.Sprintf("**%d.**", e.Rank)
		switch e.Rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}
		fmt.Fprintf(&sb, "%s %s: %s\n", medal, common.GetUserMention(e.UserID), common.FormatDinks(e.NetWorth))
	}
	embed.Description = sb.String()
	return embed
}

func transferMessage(fromID, toID int64, requested, sent decimal.Decimal) string {
	msg := fmt.Sprintf("✅ %s sent **%s** %s to %s",
		common.GetUserMention(fromID), common.FormatDinks(sent), common.DinksEmoji, common.GetUserMention(toID))
	if sent.LessThan(requested) {
		msg += fmt.Sprintf("\n-# Only %s of %s fit under their cap.", common.FormatDinks(sent), common.FormatDinks(requested))
	}
	return msg
}

func nightlyEmbed(result *models.NightlyResult, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🌙 Nightly reward",
		Description: fmt.Sprintf("You collected **%s** %s.\nNew balance: **%s**",
			common.FormatDinks(result.Reward), common.DinksEmoji, common.FormatDinks(result.NewBalance)),
		Color: common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Streak", Value: fmt.Sprintf("%d day(s)", result.Streak), Inline: true},
			{Name: "Next claim", Value: common.FormatDiscordTimestamp(service.NextResetTime(now), "R"), Inline: true},
		},
	}
}

func statsEmbed(stats *models.GambleStats, account *models.Account) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "📊 Economy stats",
		Color: common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Lost to the house", Value: common.FormatDinks(stats.TotalLost), Inline: true},
			{Name: "Won from the house", Value: common.FormatDinks(stats.TotalWon), Inline: true},
			{
				Name: "Your robberies",
				Value: fmt.Sprintf("%d successful · %d failed · %s stolen",
					account.RobSuccesses, account.RobFailures, common.FormatDinks(account.RobStolen)),
			},
			{Name: "Nightly streak", Value: fmt.Sprintf("%d", account.NightlyStreak), Inline: true},
		},
	}
}

func historyEmbed(history []*models.BalanceHistory) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🧾 Recent transactions",
		Color: common.ColorInfo,
	}
	if len(history) == 0 {
		embed.Description = "No transactions yet."
		return embed
	}

	var sb strings.Builder
	for _, h := range history {
		sign := ""
		if h.ChangeAmount.IsPositive() {
			sign = "+"
		}
		fmt.Fprintf(&sb, "%s `%s%s` %s → %s\n",
			common.FormatDiscordTimestamp(h.CreatedAt, "R"),
			sign, common.FormatDinks(h.ChangeAmount),
			strings.ReplaceAll(string(h.TransactionType), "_", " "),
			common.FormatDinks(h.BalanceAfter))
	}
	embed.Description = sb.String()
	return embed
}
