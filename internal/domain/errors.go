package domain

import "errors"

// Draft engine errors. Every rejected action leaves the draft state
// unchanged; none of these are fatal to a running session.
var (
	ErrDraftNotStarted     = errors.New("draft has not been started")
	ErrDraftComplete       = errors.New("draft is already complete")
	ErrChampionUnavailable = errors.New("champion is already picked or banned")
	ErrBanListFull         = errors.New("ban list is full")
	ErrSlotEmpty           = errors.New("slot is empty")
	ErrSlotOutOfRange      = errors.New("slot index out of range")
	ErrInvalidSide         = errors.New("invalid side")
	ErrInvalidRole         = errors.New("invalid role")
)

// Oracle errors. Both are recoverable and scoped to the optional feature;
// they never roll back or block draft actions.
var (
	ErrRecommendationUnavailable = errors.New("recommendations unavailable")
	ErrPredictionUnavailable     = errors.New("prediction unavailable")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrChampionUnknown = errors.New("champion not in catalogue")
)
