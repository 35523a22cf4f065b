package games

import (
	"fmt"
	"strings"

	"dinks/bot/common"
	"dinks/models"

	"github.com/bwmarrin/discordgo"
)

func outcomeFields(w models.WagerResult) []*discordgo.MessageEmbedField {
	net := w.Net()
	change := common.FormatDinks(net)
	if net.IsPositive() {
		change = "+" + change
	}
	return []*discordgo.MessageEmbedField{
		{Name: "Stake", Value: fmt.Sprintf("%s %s", common.FormatDinks(w.Amount), common.DinksEmoji), Inline: true},
		{Name: "Change", Value: fmt.Sprintf("%s %s", change, common.DinksEmoji), Inline: true},
		{Name: "Balance", Value: fmt.Sprintf("%s %s", common.FormatDinks(w.NewBalance), common.DinksEmoji), Inline: true},
	}
}

func outcomeColor(w models.WagerResult) int {
	if w.Won {
		return common.ColorSuccess
	}
	return common.ColorDanger
}

func coinflipEmbed(r *models.CoinflipResult) *discordgo.MessageEmbed {
	title := "🪙 Coinflip: you lost"
	if r.Won {
		title = "🪙 Coinflip: you won"
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("You called **%s**, the coin landed on **%s**.", r.Guess, r.Landed),
		Color:       outcomeColor(r.WagerResult),
		Fields:      outcomeFields(r.WagerResult),
	}
}

func diceEmbed(r *models.DiceResult) *discordgo.MessageEmbed {
	title := "🎲 Dice: you lost"
	if r.Won {
		title = "🎲 Dice: you won"
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("You guessed **%d**, the die shows **%d**.", r.Guess, r.Rolled),
		Color:       outcomeColor(r.WagerResult),
		Fields:      outcomeFields(r.WagerResult),
	}
}

func slotsEmbed(r *models.SlotsResult) *discordgo.MessageEmbed {
	description := "No luck this time."
	if r.Won {
		description = fmt.Sprintf("Paid out **x%s**!", r.Multiplier.String())
	}
	return &discordgo.MessageEmbed{
		Title:       "🎰 " + strings.Join(r.Reels, " | "),
		Description: description,
		Color:       outcomeColor(r.WagerResult),
		Fields:      outcomeFields(r.WagerResult),
	}
}
