package bot

import (
	"fmt"

	"dinks/bot/features/admin"
	"dinks/bot/features/bank"
	"dinks/bot/features/bitcoin"
	"dinks/bot/features/dinks"
	"dinks/bot/features/games"
	"dinks/bot/features/prison"
	"dinks/bot/features/rob"
	"dinks/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string
}

// Services bundles the economy services the bot features call into
type Services struct {
	Ledger   service.LedgerService
	Bank     service.BankService
	Rob      service.RobService
	Prison   service.PrisonService
	Gambling service.GamblingService
	Nightly  service.NightlyService
}

// Bot manages the Discord session and all feature modules
type Bot struct {
	config  Config
	session *discordgo.Session

	// Feature modules
	dinks   *dinks.Feature
	bank    *bank.Feature
	bitcoin *bitcoin.Feature
	rob     *rob.Feature
	prison  *prison.Feature
	games   *games.Feature
	admin   *admin.Feature
}

// New creates a bot instance, opens the gateway and registers slash commands
func New(config Config, services Services) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:  config,
		session: dg,
		dinks:   dinks.New(services.Ledger, services.Nightly, services.Gambling, services.Bank),
		bank:    bank.New(services.Bank, services.Ledger),
		bitcoin: bitcoin.New(services.Bank, services.Ledger),
		rob:     rob.New(services.Rob),
		prison:  prison.New(services.Prison),
		games:   games.New(services.Gambling, services.Ledger),
		admin:   admin.New(services.Ledger, services.Prison),
	}

	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	return b.session.Close()
}

// handleCommands routes slash commands to the owning feature
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	log.WithField("command", name).Debug("Handling command")

	switch name {
	case "dinks":
		b.dinks.HandleCommand(s, i)
	case "bank":
		b.bank.HandleCommand(s, i)
	case "bitcoin":
		b.bitcoin.HandleCommand(s, i)
	case "rob":
		b.rob.HandleCommand(s, i)
	case "prison":
		b.prison.HandleCommand(s, i)
	case "coinflip":
		b.games.HandleCoinflip(s, i)
	case "dice":
		b.games.HandleDice(s, i)
	case "slots":
		b.games.HandleSlots(s, i)
	case "economy":
		b.admin.HandleCommand(s, i)
	default:
		log.WithField("command", name).Warn("Unknown command")
	}
}
