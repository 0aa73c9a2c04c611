package services

import "errors"

// Shared errors across services and the HTTP error mapper.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules. Always recoverable by the caller
	// correcting input; never auto-repaired.
	ErrValidationFailed           = errors.New("validation failed")
	ErrPasswordTooShort           = errors.New("password is too short")
	ErrInvalidCredentials         = errors.New("invalid email or password")
	ErrRegistrationNotOpen        = errors.New("tournament registration is not open")
	ErrTournamentFull             = errors.New("tournament registration is full")
	ErrPartnerNotInTournament     = errors.New("partner registration does not belong to this tournament")
	ErrSeedingPolicyInvalid       = errors.New("unknown seeding policy")
	ErrTournamentDatesRequired    = errors.New("tournament dates are required")
	ErrTournamentInvalidRegDate   = errors.New("tournament registration date cannot be after start date")
	ErrTournamentInvalidDateRange = errors.New("tournament end date must be after start date")
	ErrTournamentInvalidCapacity  = errors.New("tournament max entries must be positive")
	ErrTournamentInvalidStatus    = errors.New("invalid tournament status provided")
	ErrTournamentStatusTransition = errors.New("invalid tournament status transition")

	// State errors. Retrying an already-applied mutation is unsafe, so
	// these are rejected synchronously and must not be retried blindly.
	ErrBracketAlreadyGenerated = errors.New("bracket has already been generated for this tournament")
	ErrBracketNotGenerated     = errors.New("bracket has not been generated yet")
	ErrBracketHasResults       = errors.New("bracket cannot be deleted once results are recorded")
	ErrEntriesFrozen           = errors.New("entries are frozen once the bracket is generated")
	ErrMatchNotSubmittable     = errors.New("match cannot accept a result in its current state")
	ErrWinnerNotInMatch        = errors.New("winner is not a participant of this match")
	ErrStandingsNotReady       = errors.New("standings are not available until the tournament completes")

	// Conflicts.
	ErrEmailConflict        = errors.New("email address is already in use")
	ErrRegistrationConflict = errors.New("player is already registered for this tournament")

	// Auth.
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Entity-specific not-found errors for clearer messages.
	ErrPlayerNotFound       = errors.New("player not found")
	ErrFormatNotFound       = errors.New("format not found")
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrMatchNotFound        = errors.New("match not found")
)
