package rob

import (
	"fmt"

	"dinks/bot/common"
	"dinks/models"

	"github.com/bwmarrin/discordgo"
)

func robEmbed(result *models.RobResult) *discordgo.MessageEmbed {
	attacker := common.GetUserMention(result.AttackerID)
	target := common.GetUserMention(result.TargetID)

	embed := &discordgo.MessageEmbed{
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Rolled %d against %d", result.Roll, result.Threshold),
		},
	}

	switch result.Outcome {
	case models.RobOutcomeSuccess:
		embed.Title = "🦹 Robbery successful"
		embed.Color = common.ColorSuccess
		embed.Description = fmt.Sprintf("%s robbed %s of **%s** %s!",
			attacker, target, common.FormatDinks(result.Stolen), common.DinksEmoji)
	case models.RobOutcomeLeftBehind:
		embed.Title = "💸 Botched robbery"
		embed.Color = common.ColorWarning
		embed.Description = fmt.Sprintf("%s fled from %s and dropped **%s** %s on the way out.",
			attacker, target, common.FormatDinks(result.Paid), common.DinksEmoji)
	case models.RobOutcomeCaught:
		embed.Title = "🚔 Caught red-handed"
		embed.Color = common.ColorDanger
		embed.Description = fmt.Sprintf("%s was caught robbing %s and paid **%s** %s.",
			attacker, target, common.FormatDinks(result.Paid), common.DinksEmoji)
	case models.RobOutcomeEscaped:
		embed.Title = "🏃 Clean getaway"
		embed.Color = common.ColorInfo
		embed.Description = fmt.Sprintf("%s failed to rob %s but got away unharmed.", attacker, target)
	}

	if result.Prison != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "⛓️ Sentenced",
			Value: fmt.Sprintf("%d day(s) with **%s** %s of debt left",
				result.Prison.DaysRemaining, common.FormatDinks(result.Prison.Debt), common.DinksEmoji),
		})
	}
	return embed
}
