package common

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// Subcommand returns the invoked subcommand and its options. For commands
// without subcommands the name is empty and the top-level options are returned.
func Subcommand(i *discordgo.InteractionCreate) (string, []*discordgo.ApplicationCommandInteractionDataOption) {
	options := i.ApplicationCommandData().Options
	if len(options) == 1 && options[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		return options[0].Name, options[0].Options
	}
	return "", options
}

// OptionMap indexes options by name
func OptionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// StringOption returns a string option or "" when absent
func StringOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := options[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// IntOption returns an integer option or 0 when absent. Gateway payloads carry
// integers as JSON numbers.
func IntOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) int {
	opt, ok := options[name]
	if !ok {
		return 0
	}
	switch v := opt.Value.(type) {
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

// UserOption resolves a user option, or returns nil when absent
func UserOption(s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.User {
	opt, ok := options[name]
	if !ok {
		return nil
	}
	id, _ := opt.Value.(string)
	if resolved := i.ApplicationCommandData().Resolved; resolved != nil {
		if u, ok := resolved.Users[id]; ok {
			return u
		}
	}
	return opt.UserValue(s)
}
