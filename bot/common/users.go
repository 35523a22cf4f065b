package common

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// InvokerUser returns the user behind an interaction, in guilds and DMs alike
func InvokerUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// InvokerID returns the invoking user's Discord ID, or "" when unknown
func InvokerID(i *discordgo.InteractionCreate) string {
	if u := InvokerUser(i); u != nil {
		return u.ID
	}
	return ""
}

// IsAdministrator reports whether the invoking guild member holds the
// administrator permission. Direct messages never qualify.
func IsAdministrator(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionAdministrator != 0
}

// CommandName returns the slash command name of an interaction
func CommandName(i *discordgo.InteractionCreate) string {
	if i.Type != discordgo.InteractionApplicationCommand {
		return ""
	}
	return i.ApplicationCommandData().Name
}

// GetDisplayName returns the server-specific display name for a user
// Falls back to username if nickname is not set or if there's an error
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	if guildID != "" {
		member, err := s.GuildMember(guildID, userID)
		if err == nil && member != nil {
			if member.Nick != "" {
				return member.Nick
			}
			if member.User != nil {
				return member.User.Username
			}
		}
	}

	user, err := s.User(userID)
	if err == nil && user != nil {
		return user.Username
	}

	return "Unknown"
}

// ParseUserID converts a Discord user ID string to int64
func ParseUserID(userID string) (int64, error) {
	return strconv.ParseInt(userID, 10, 64)
}

// FormatUserID converts an int64 user ID to string
func FormatUserID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// GetUserMention returns a Discord mention string for a user
func GetUserMention(userID int64) string {
	return "<@" + FormatUserID(userID) + ">"
}

// InvokerUserID returns the invoking user's Discord ID as int64
func InvokerUserID(i *discordgo.InteractionCreate) (int64, error) {
	id := InvokerID(i)
	if id == "" {
		return 0, NewUserError("I couldn't tell who you are.", "interaction without user")
	}
	userID, err := ParseUserID(id)
	if err != nil {
		return 0, &BotError{UserMessage: "I couldn't tell who you are.", LogMessage: "invalid user id " + id, Err: err}
	}
	return userID, nil
}
