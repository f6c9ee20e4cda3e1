package constant

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"
)

// Session lifecycle states.
const (
	SessionStateIdle       = "IDLE"
	SessionStateSubmitting = "SUBMITTING"
	SessionStateSucceeded  = "SUCCEEDED"
	SessionStateFailed     = "FAILED"
)

// Input modalities.
const (
	ModalityText   = "text"
	ModalityFile   = "file"
	ModalityCamera = "camera"
)

// Failure kinds recorded on a session after a failed analysis. The user-facing
// message is the same generic one for both kinds.
const (
	FailureKindTransport         = "TRANSPORT_ERROR"
	FailureKindMalformedResponse = "MALFORMED_MODEL_RESPONSE"
)

const CapturedFrameFilename = "captured-note.jpg"

// ChatFallbackMessage is appended to the transcript in place of a model turn
// when the chat call fails. The transcript is never rolled back.
const ChatFallbackMessage = "Sorry, I encountered an error. Please try again."

// ChatEmptyReplyMessage stands in for an empty model reply.
const ChatEmptyReplyMessage = "I'm sorry, I couldn't process that."

// AnalysisFailedMessage is the generic retry-inviting message shown whenever
// an analysis attempt fails, regardless of the underlying failure kind.
const AnalysisFailedMessage = "Failed to analyze the note. Please try again."
