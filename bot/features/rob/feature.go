package rob

import (
	"context"

	"dinks/bot/common"
	"dinks/service"

	"github.com/bwmarrin/discordgo"
)

// Feature serves /rob
type Feature struct {
	rob service.RobService
}

func New(rob service.RobService) *Feature {
	return &Feature{rob: rob}
}

// HandleCommand resolves the target and runs the attempt
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	_, opts := common.Subcommand(i)
	options := common.OptionMap(opts)

	attackerID, err := common.InvokerUserID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	target := common.UserOption(s, i, options, "user")
	if target == nil {
		common.HandleError(s, i, common.NewUserError("Pick someone to rob.", "rob without target"), false)
		return
	}
	targetID, err := common.ParseUserID(target.ID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	isSelf := s != nil && s.State != nil && s.State.User != nil && s.State.User.ID == target.ID
	result, err := f.rob.Rob(ctx, service.RobRequest{
		AttackerID:  attackerID,
		TargetID:    targetID,
		TargetIsBot: target.Bot || isSelf,
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.RespondWithEmbed(s, i, robEmbed(result), false)
}
