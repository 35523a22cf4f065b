package games

import (
	"context"

	"dinks/bot/common"
	"dinks/models"
	"dinks/service"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
)

// Feature serves /coinflip, /dice and /slots
type Feature struct {
	gambling service.GamblingService
	ledger   service.LedgerService
}

func New(gambling service.GamblingService, ledger service.LedgerService) *Feature {
	return &Feature{
		gambling: gambling,
		ledger:   ledger,
	}
}

// stake resolves the amount option against the invoker's dinks
func (f *Feature) stake(ctx context.Context, userID int64, options map[string]*discordgo.ApplicationCommandInteractionDataOption) (decimal.Decimal, error) {
	return common.ResolveAmount(common.StringOption(options, "amount"), func() (decimal.Decimal, error) {
		account, err := f.ledger.GetBalance(ctx, userID)
		if err != nil {
			return decimal.Zero, err
		}
		return account.Dinks, nil
	})
}

// HandleCoinflip runs /coinflip amount guess
func (f *Feature) HandleCoinflip(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.OptionMap(i.ApplicationCommandData().Options)

	userID, err := common.InvokerUserID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	amount, err := f.stake(ctx, userID, options)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	result, err := f.gambling.Coinflip(ctx, userID, amount, models.CoinSide(common.StringOption(options, "guess")))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, coinflipEmbed(result), false)
}

// HandleDice runs /dice amount guess
func (f *Feature) HandleDice(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.OptionMap(i.ApplicationCommandData().Options)

	userID, err := common.InvokerUserID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	guess := common.IntOption(options, "guess")
	amount, err := f.stake(ctx, userID, options)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	result, err := f.gambling.Dice(ctx, userID, amount, guess)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, diceEmbed(result), false)
}

// HandleSlots runs /slots amount
func (f *Feature) HandleSlots(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.OptionMap(i.ApplicationCommandData().Options)

	userID, err := common.InvokerUserID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	amount, err := f.stake(ctx, userID, options)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	result, err := f.gambling.Slots(ctx, userID, amount)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, slotsEmbed(result), false)
}
