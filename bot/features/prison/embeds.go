package prison

import (
	"fmt"
	"strings"
	"time"

	"dinks/bot/common"
	"dinks/models"
	"dinks/service"

	"github.com/bwmarrin/discordgo"
)

// releaseTime is when the sentence ends if the debt is never paid. Each
// nightly reset serves one day.
func releaseTime(record *models.PrisonRecord, now time.Time) time.Time {
	return service.NextResetTime(now).AddDate(0, 0, record.DaysRemaining-1)
}

func statusEmbed(userID int64, record *models.PrisonRecord, now time.Time) *discordgo.MessageEmbed {
	mention := common.GetUserMention(userID)
	if record == nil {
		return &discordgo.MessageEmbed{
			Title:       "🕊️ Free",
			Description: fmt.Sprintf("%s is not in prison.", mention),
			Color:       common.ColorSuccess,
		}
	}

	return &discordgo.MessageEmbed{
		Title:       "⛓️ In prison",
		Description: fmt.Sprintf("%s is serving time.", mention),
		Color:       common.ColorDanger,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Bail", Value: fmt.Sprintf("%s %s", common.FormatDinks(record.Debt), common.DinksEmoji), Inline: true},
			{Name: "Days left", Value: fmt.Sprintf("%d", record.DaysRemaining), Inline: true},
			{Name: "Released", Value: common.FormatDiscordTimestamp(releaseTime(record, now), "R"), Inline: true},
		},
	}
}

func bailEmbed(userID int64, record *models.PrisonRecord) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🔓 Bailed out",
		Description: fmt.Sprintf("%s paid **%s** %s and walked free.",
			common.GetUserMention(userID), common.FormatDinks(record.Debt), common.DinksEmoji),
		Color: common.ColorSuccess,
	}
}

func listEmbed(records []*models.PrisonRecord) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🏚️ Prison",
		Color: common.ColorDanger,
	}
	if len(records) == 0 {
		embed.Description = "The cells are empty."
		return embed
	}

	var sb strings.Builder
	for _, r := range records {
		fmt.Fprintf(&sb, "%s: %d day(s), bail %s\n",
			common.GetUserMention(r.UserID), r.DaysRemaining, common.FormatDinks(r.Debt))
	}
	embed.Description = sb.String()
	return embed
}
