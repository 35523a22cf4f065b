package prison

import (
	"context"
	"time"

	"dinks/bot/common"
	"dinks/service"

	"github.com/bwmarrin/discordgo"
)

// Feature serves the /prison command group
type Feature struct {
	prison service.PrisonService
}

func New(prison service.PrisonService) *Feature {
	return &Feature{prison: prison}
}

// HandleCommand routes /prison subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i)
	options := common.OptionMap(opts)

	switch sub {
	case "status":
		f.handleStatus(s, i, options)
	case "bail":
		f.handleBail(s, i)
	case "list":
		f.handleList(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand.")
	}
}

func (f *Feature) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	userID, err := common.InvokerUserID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	if target := common.UserOption(s, i, options, "user"); target != nil {
		if userID, err = common.ParseUserID(target.ID); err != nil {
			common.HandleError(s, i, err, false)
			return
		}
	}

	record, err := f.prison.Status(ctx, userID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, statusEmbed(userID, record, time.Now()), false)
}

func (f *Feature) handleBail(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, err := common.InvokerUserID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	record, err := f.prison.Bail(ctx, userID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, bailEmbed(userID, record), false)
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	records, err := f.prison.List(context.Background(), common.PrisonListSize)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, listEmbed(records), false)
}
