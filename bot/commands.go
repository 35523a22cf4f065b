package bot

import (
	"fmt"

	"dinks/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func amountOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "amount",
		Description: description,
		Required:    required,
	}
}

func userOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    required,
	}
}

func subcommand(name, description string, options ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
		Options:     options,
	}
}

func trackChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.UpgradeTracks))
	for _, track := range models.UpgradeTracks {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  string(track),
			Value: string(track),
		})
	}
	return choices
}

// commandDefinitions lists every slash command the bot serves
func commandDefinitions() []*discordgo.ApplicationCommand {
	minGuess := 1.0
	minDays := 1.0
	var adminOnly int64 = discordgo.PermissionAdministrator

	return []*discordgo.ApplicationCommand{
		{
			Name:        "dinks",
			Description: "Your dinks wallet",
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("balance", "Show a balance", userOption("Whose balance (defaults to you)", false)),
				subcommand("leaderboard", "Richest players by net worth"),
				subcommand("transfer", "Give dinks to another player",
					userOption("Who receives the dinks", true),
					amountOption("Amount, e.g. 500, 2k, half or all", true)),
				subcommand("nightly", "Claim your nightly dinks"),
				subcommand("stats", "Bot-wide gambling totals"),
				subcommand("history", "Your recent balance changes"),
			},
		},
		{
			Name:        "bank",
			Description: "Invest dinks and manage your bank",
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("invest", "Move dinks into the bank", amountOption("Amount to invest", true)),
				subcommand("claim", "Withdraw profit from the bank", amountOption("Amount to claim (defaults to all)", false)),
				subcommand("upgrade", "Buy the next level of an upgrade", &discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "track",
					Description: "Which upgrade to buy",
					Required:    true,
					Choices:     trackChoices(),
				}),
				subcommand("upgrades", "Show your upgrade levels and prices"),
			},
		},
		{
			Name:        "bitcoin",
			Description: "Trade bitcoin with your dinks",
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("price", "Current bitcoin price"),
				subcommand("buy", "Buy bitcoin", amountOption("Dinks to spend", true)),
				subcommand("sell", "Sell bitcoin", amountOption("Bitcoin to sell", true)),
			},
		},
		{
			Name:        "rob",
			Description: "Try to steal dinks from another player",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Who to rob", true),
			},
		},
		{
			Name:        "prison",
			Description: "Prison status and bail",
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("status", "Check a prison sentence", userOption("Whose sentence (defaults to you)", false)),
				subcommand("bail", "Pay your bail and walk free"),
				subcommand("list", "Everyone currently in prison"),
			},
		},
		{
			Name:                     "economy",
			Description:              "Adjust balances and sentences",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("grant", "Credit dinks, clamped to the cap",
					userOption("Who receives the dinks", true),
					amountOption("Exact amount, e.g. 500 or 2k", true)),
				subcommand("take", "Debit dinks",
					userOption("Who loses the dinks", true),
					amountOption("Exact amount, e.g. 500 or 2k", true)),
				subcommand("jail", "Send a player to prison",
					userOption("Who goes to prison", true),
					amountOption("Bail owed", true),
					&discordgo.ApplicationCommandOption{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "days",
						Description: "Length of the sentence",
						Required:    true,
						MinValue:    &minDays,
					}),
			},
		},
		{
			Name:        "coinflip",
			Description: "Call heads or tails",
			Options: []*discordgo.ApplicationCommandOption{
				amountOption("Amount to bet", true),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "guess",
					Description: "Heads or tails",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "heads", Value: string(models.CoinHeads)},
						{Name: "tails", Value: string(models.CoinTails)},
					},
				},
			},
		},
		{
			Name:        "dice",
			Description: "Guess the roll of a die",
			Options: []*discordgo.ApplicationCommandOption{
				amountOption("Amount to bet", true),
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "guess",
					Description: "Face you bet on",
					Required:    true,
					MinValue:    &minGuess,
					MaxValue:    6,
				},
			},
		},
		{
			Name:        "slots",
			Description: "Spin the slot machine",
			Options: []*discordgo.ApplicationCommandOption{
				amountOption("Amount to bet", true),
			},
		},
	}
}

// registerCommands replaces the registered command set in one call
func (b *Bot) registerCommands() error {
	commands := commandDefinitions()

	registered, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.config.GuildID, commands)
	if err != nil {
		return fmt.Errorf("cannot register commands: %w", err)
	}

	log.WithFields(log.Fields{
		"count":    len(registered),
		"guild_id": b.config.GuildID,
	}).Info("Registered slash commands")
	return nil
}
