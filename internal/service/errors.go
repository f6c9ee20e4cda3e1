package service

import "errors"

var (
	ErrSessionNotFound    = errors.New("analysis session not found")
	ErrSubmissionInFlight = errors.New("an analysis is already in flight for this session")
	ErrNoStagedInput      = errors.New("no input has been staged for analysis")
	ErrNoAnalysis         = errors.New("no analysis result is available on this session")
	ErrChatBusy           = errors.New("a chat reply is already pending for this session")
	ErrChatUnavailable    = errors.New("chat is not available before a successful analysis")
	ErrUnknownModality    = errors.New("unknown input modality")
	ErrHistoryNotFound    = errors.New("history record not found")
	ErrStaleSubmission    = errors.New("analysis result discarded, session was reset while in flight")

	// ErrAnalysisFailed wraps any provider failure; the session carries the
	// failure kind for audit purposes.
	ErrAnalysisFailed = errors.New("analysis failed")
)
