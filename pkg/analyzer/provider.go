package analyzer

import (
	"context"
	"errors"

	"docdecode-be/internal/entity"
	"docdecode-be/pkg/capture"
)

// ErrMalformedModelResponse marks a model reply that does not parse as the
// declared analysis schema. Callers treat it like any other failed analysis;
// the distinction is logged, not shown to the user.
var ErrMalformedModelResponse = errors.New("malformed model response")

// RequestSpec is the fully assembled outbound analysis request: instruction,
// content parts, model identifier and the declared response schema.
type RequestSpec struct {
	Model       string
	Instruction string

	// NoteText carries the document when the payload is text; Attachment
	// carries it when the payload is a file or camera frame. Exactly one is
	// set, mirroring the payload union.
	NoteText   string
	Attachment *capture.BinaryInput

	Schema *Schema

	// Grounding is non-nil only when premium and geolocation are both
	// present; the provider attaches its location-grounding tool.
	Grounding *entity.GeoPoint
}

// Schema is a provider-agnostic response-schema declaration, converted by
// each provider into its native representation.
type Schema struct {
	Type        string
	Description string
	Properties  map[string]*Schema
	Items       *Schema
	Required    []string
}

const (
	TypeObject = "OBJECT"
	TypeString = "STRING"
	TypeArray  = "ARRAY"
)

// ChatSession is an opaque follow-up conversation handle. Conversation state
// is owned by the provider; the core only sends one message at a time.
type ChatSession interface {
	SendMessage(ctx context.Context, text string) (string, error)
}

// Provider is the external generative model behind the analysis pipeline.
type Provider interface {
	// Analyze submits the assembled request and parses the reply as a
	// DischargeAnalysis. A reply that does not match the schema fails with
	// ErrMalformedModelResponse.
	Analyze(ctx context.Context, spec *RequestSpec) (*entity.DischargeAnalysis, error)

	// NewChatSession derives a follow-up conversation bound to a completed
	// analysis and the original input description.
	NewChatSession(ctx context.Context, analysis *entity.DischargeAnalysis, originalInput string) (ChatSession, error)
}
