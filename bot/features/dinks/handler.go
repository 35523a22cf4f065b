package dinks

import (
	"context"
	"time"

	"dinks/bot/common"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	userID, err := common.InvokerUserID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	displayID := common.InvokerID(i)
	if target := common.UserOption(s, i, options, "user"); target != nil {
		if userID, err = common.ParseUserID(target.ID); err != nil {
			common.HandleError(s, i, err, false)
			return
		}
		displayID = target.ID
	}

	account, err := f.ledger.GetBalance(ctx, userID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	// The balance still renders without a quote
	price, err := f.bank.BitcoinPrice(ctx)
	if err != nil {
		log.WithError(err).Debug("Rendering balance without bitcoin quote")
		price = decimal.Zero
	}

	name := common.GetDisplayName(s, i.GuildID, displayID)
	common.RespondWithEmbed(s, i, balanceEmbed(name, account, price), false)
}

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	entries, err := f.ledger.Leaderboard(ctx, common.LeaderboardSize)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, leaderboardEmbed(entries), false)
}

func (f *Feature) handleTransfer(s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	fromID, err := common.InvokerUserID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	recipient := common.UserOption(s, i, options, "user")
	if recipient == nil {
		common.HandleError(s, i, common.NewUserError("Pick someone to send dinks to.", "transfer without recipient"), false)
		return
	}
	if recipient.Bot {
		common.HandleError(s, i, common.NewUserError("Bots don't need dinks.", "transfer to bot"), false)
		return
	}
	toID, err := common.ParseUserID(recipient.ID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	amount, err := common.ResolveAmount(common.StringOption(options, "amount"), func() (decimal.Decimal, error) {
		account, err := f.ledger.GetBalance(ctx, fromID)
		if err != nil {
			return decimal.Zero, err
		}
		return account.Dinks, nil
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	sent, err := f.ledger.Transfer(ctx, fromID, toID, amount)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.RespondWithMessage(s, i, transferMessage(fromID, toID, amount, sent), false)
}

func (f *Feature) handleNightly(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, err := common.InvokerUserID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	result, err := f.nightly.Claim(ctx, userID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, nightlyEmbed(result, time.Now()), false)
}

func (f *Feature) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, err := common.InvokerUserID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	stats, err := f.gambling.Stats(ctx)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	account, err := f.ledger.GetBalance(ctx, userID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, statsEmbed(stats, account), false)
}

func (f *Feature) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, err := common.InvokerUserID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	history, err := f.ledger.History(ctx, userID, common.HistorySize)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, historyEmbed(history), true)
}
