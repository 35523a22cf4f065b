package admin

import (
	"context"

	"dinks/bot/common"
	"dinks/service"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Feature serves the administrator-only /economy command group
type Feature struct {
	ledger service.LedgerService
	prison service.PrisonService
}

func New(ledger service.LedgerService, prison service.PrisonService) *Feature {
	return &Feature{ledger: ledger, prison: prison}
}

// HandleCommand routes /economy subcommands after checking permissions again,
// since guilds can override the default member permissions.
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsAdministrator(i) {
		common.RespondWithError(s, i, "Only administrators can change the economy.")
		return
	}

	sub, opts := common.Subcommand(i)
	options := common.OptionMap(opts)

	userID, err := targetID(s, i, options)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	amount, err := absoluteAmount(common.StringOption(options, "amount"))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	log.WithFields(log.Fields{
		"subcommand": sub,
		"adminID":    common.InvokerID(i),
		"userID":     userID,
		"amount":     amount.String(),
	}).Info("Economy adjustment requested")

	switch sub {
	case "grant":
		f.handleGrant(s, i, userID, amount)
	case "take":
		f.handleTake(s, i, userID, amount)
	case "jail":
		f.handleJail(s, i, userID, amount, common.IntOption(options, "days"))
	default:
		common.RespondWithError(s, i, "Unknown subcommand.")
	}
}

func (f *Feature) handleGrant(s *discordgo.Session, i *discordgo.InteractionCreate, userID int64, amount decimal.Decimal) {
	balance, err := f.ledger.Add(context.Background(), userID, amount)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, adjustmentEmbed(userID, amount, balance, true), true)
}

func (f *Feature) handleTake(s *discordgo.Session, i *discordgo.InteractionCreate, userID int64, amount decimal.Decimal) {
	balance, err := f.ledger.Subtract(context.Background(), userID, amount)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, adjustmentEmbed(userID, amount, balance, false), true)
}

func (f *Feature) handleJail(s *discordgo.Session, i *discordgo.InteractionCreate, userID int64, debt decimal.Decimal, days int) {
	record, err := f.prison.Imprison(context.Background(), userID, debt, days)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, jailEmbed(record), false)
}

func targetID(s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) (int64, error) {
	target := common.UserOption(s, i, options, "user")
	if target == nil {
		return 0, common.NewUserError("Pick a player.", "economy adjustment without user")
	}
	if target.Bot {
		return 0, common.NewUserError("Bots don't hold dinks.", "economy adjustment on bot")
	}
	return common.ParseUserID(target.ID)
}

// absoluteAmount parses an amount that does not depend on anyone's holdings
func absoluteAmount(input string) (decimal.Decimal, error) {
	if common.IsRelativeAmount(input) {
		return decimal.Zero, common.NewUserError("Use an exact amount here.", "relative amount in economy adjustment")
	}
	return common.ParseAmount(input, decimal.Zero)
}
