package bitcoin

import (
	"fmt"

	"dinks/bot/common"
	"dinks/models"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
)

func priceEmbed(price decimal.Decimal) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       common.BitcoinEmoji + " Bitcoin",
		Description: fmt.Sprintf("1 BTC = **%s** %s", common.FormatDinks(price), common.DinksEmoji),
		Color:       common.ColorGold,
	}
}

func tradeEmbed(trade *models.BitcoinTrade, buy bool) *discordgo.MessageEmbed {
	title := "📈 Bought bitcoin"
	description := fmt.Sprintf("You bought **%s** BTC for **%s** %s.",
		common.FormatCoins(trade.Coins), common.FormatDinks(trade.Dinks), common.DinksEmoji)
	if !buy {
		title = "📉 Sold bitcoin"
		description = fmt.Sprintf("You sold **%s** BTC for **%s** %s.",
			common.FormatCoins(trade.Coins), common.FormatDinks(trade.Dinks), common.DinksEmoji)
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       common.ColorGold,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Price", Value: common.FormatDinks(trade.Price), Inline: true},
			{Name: "Holdings", Value: common.FormatCoins(trade.Account.Bitcoins) + " BTC", Inline: true},
			{Name: "Dinks", Value: common.FormatDinks(trade.Account.Dinks), Inline: true},
		},
	}
}
