package bank

import (
	"dinks/bot/common"
	"dinks/service"

	"github.com/bwmarrin/discordgo"
)

// Feature serves the /bank command group
type Feature struct {
	bank   service.BankService
	ledger service.LedgerService
}

func New(bank service.BankService, ledger service.LedgerService) *Feature {
	return &Feature{
		bank:   bank,
		ledger: ledger,
	}
}

// HandleCommand routes /bank subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i)
	options := common.OptionMap(opts)

	switch sub {
	case "invest":
		f.handleInvest(s, i, options)
	case "claim":
		f.handleClaim(s, i, options)
	case "upgrade":
		f.handleUpgrade(s, i, options)
	case "upgrades":
		f.handleUpgrades(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand.")
	}
}
