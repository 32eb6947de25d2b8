package calc

import "errors"

// Sentinel kinds for engine errors.
var (
	ErrConstructionFailed  = errors.New("failed to construct evaluator handle")
	ErrNoNotesProvided     = errors.New("no notes provided for evaluation")
	ErrInvalidMusicRate    = errors.New("invalid music rate")
	ErrInvalidScoreGoal    = errors.New("invalid score goal")
	ErrUnsupportedKeyCount = errors.New("unsupported key count")
	ErrHandleClosed        = errors.New("evaluator handle is closed")
)
