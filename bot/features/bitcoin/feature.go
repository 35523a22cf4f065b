package bitcoin

import (
	"context"

	"dinks/bot/common"
	"dinks/service"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
)

// Feature serves the /bitcoin command group
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

// HandleCommand routes /bitcoin subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i)
	options := common.OptionMap(opts)

	switch sub {
	case "price":
		f.handlePrice(s, i)
	case "buy":
		f.handleTrade(s, i, options, true)
	case "sell":
		f.handleTrade(s, i, options, false)
	default:
		common.RespondWithError(s, i, "Unknown subcommand.")
	}
}

func (f *Feature) handlePrice(s *discordgo.Session, i *discordgo.InteractionCreate) {
	price, err := f.bank.BitcoinPrice(context.Background())
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, priceEmbed(price), false)
}

func (f *Feature) handleTrade(s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption, buy bool) {
	ctx := context.Background()

	userID, err := common.InvokerUserID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	// Buys are sized in dinks, sells in coins
	amount, err := common.ResolveAmount(common.StringOption(options, "amount"), func() (decimal.Decimal, error) {
		account, err := f.ledger.GetBalance(ctx, userID)
		if err != nil {
			return decimal.Zero, err
		}
		if buy {
			return account.Dinks, nil
		}
		return account.Bitcoins, nil
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if buy {
		trade, err := f.bank.BuyBitcoin(ctx, userID, amount)
		if err != nil {
			common.HandleError(s, i, err, false)
			return
		}
		common.RespondWithEmbed(s, i, tradeEmbed(trade, true), false)
		return
	}

	trade, err := f.bank.SellBitcoin(ctx, userID, amount)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, tradeEmbed(trade, false), false)
}
