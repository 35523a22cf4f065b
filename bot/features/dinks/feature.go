package dinks

import (
	"dinks/bot/common"
	"dinks/service"

	"github.com/bwmarrin/discordgo"
)

// Feature serves the /dinks command group
type Feature struct {
	ledger   service.LedgerService
	nightly  service.NightlyService
	gambling service.GamblingService
	bank     service.BankService
}

func New(ledger service.LedgerService, nightly service.NightlyService, gambling service.GamblingService, bank service.BankService) *Feature {
	return &Feature{
		ledger:   ledger,
		nightly:  nightly,
		gambling: gambling,
		bank:     bank,
	}
}

// HandleCommand routes /dinks subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i)
	options := common.OptionMap(opts)

	switch sub {
	case "balance":
		f.handleBalance(s, i, options)
	case "leaderboard":
		f.handleLeaderboard(s, i)
	case "transfer":
		f.handleTransfer(s, i, options)
	case "nightly":
		f.handleNightly(s, i)
	case "stats":
		f.handleStats(s, i)
	case "history":
		f.handleHistory(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand.")
	}
}
