package common

import (
	"errors"
	"fmt"

	"dinks/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Err         error  // Underlying error
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (validation, bad targets)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
	}
}

const genericFailure = "Something went wrong. Please try again later."

var refusals = []struct {
	err     error
	message string
}{
	{service.ErrInsufficientFunds, "You don't have enough dinks for that."},
	{service.ErrInvalidAmount, "The amount has to be a positive number."},
	{ErrUnparsableAmount, "I couldn't read that amount. Try `250`, `1.5k`, `2m`, `all` or `half`."},
	{service.ErrAlreadyImprisoned, "You can't do that from behind bars."},
	{service.ErrNotImprisoned, "You're not in prison."},
	{service.ErrSelfTarget, "You can't target yourself."},
	{service.ErrInvalidTarget, "That target can't be robbed."},
	{service.ErrConcurrencyConflict, "Your account is busy right now, try again in a moment."},
	{service.ErrAlreadyClaimed, "You already claimed your nightly reward today."},
	{service.ErrInvalidTrack, "Unknown upgrade. Pick interest, capacity or rob."},
	{service.ErrPriceUnavailable, "The bitcoin market is closed right now, try again later."},
	{service.ErrInvalidGuess, "That's not a valid guess."},
	{service.ErrCapReached, "You're already at the wealth cap."},
}

// IsRefusal reports whether err is an expected domain refusal
func IsRefusal(err error) bool {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return true
	}
	for _, r := range refusals {
		if errors.Is(err, r.err) {
			return true
		}
	}
	return false
}

// UserMessage maps an error to what the user gets to read
func UserMessage(err error) string {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr.UserMessage
	}
	for _, r := range refusals {
		if errors.Is(err, r.err) {
			return r.message
		}
	}
	return genericFailure
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// HandleError logs err and tells the user what went wrong. Refusals are
// logged at debug level, everything else as an error.
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	fields := log.Fields{
		"user_id": InvokerID(i),
		"command": CommandName(i),
		"error":   err.Error(),
	}
	if IsRefusal(err) {
		log.WithFields(fields).Debug("Command refused")
	} else {
		log.WithFields(fields).Error("Unexpected error in bot command")
	}

	message := UserMessage(err)
	if deferred {
		FollowUpWithError(s, i, message)
	} else {
		RespondWithError(s, i, message)
	}
}
