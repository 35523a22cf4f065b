package service

import "errors"

// Refusals surfaced to the user. None of them leave partial state behind.
var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrAlreadyImprisoned   = errors.New("already imprisoned")
	ErrNotImprisoned       = errors.New("not imprisoned")
	ErrSelfTarget          = errors.New("cannot target yourself")
	ErrInvalidTarget       = errors.New("invalid target")
	ErrConcurrencyConflict = errors.New("too many concurrent updates, try again")
	ErrAlreadyClaimed      = errors.New("already claimed today")
	ErrInvalidTrack        = errors.New("unknown upgrade track")
	ErrPriceUnavailable    = errors.New("bitcoin price unavailable")
	ErrInvalidGuess        = errors.New("invalid guess")
	ErrCapReached          = errors.New("account is at the value cap")
)

// ErrVersionConflict is returned by repositories when an optimistic update
// lost the race. Services retry the whole unit of work on it.
var ErrVersionConflict = errors.New("account version conflict")

// ErrInterestAlreadyApplied is returned when the run row for a day already exists
var ErrInterestAlreadyApplied = errors.New("interest already applied for this day")
