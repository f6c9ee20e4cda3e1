package store

import (
	"sync"

	"docdecode-be/internal/entity"
	"docdecode-be/pkg/analyzer"
	"docdecode-be/pkg/capture"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Session is the per-client analysis state. All fields are guarded by the
// embedded mutex; callers lock around every read and write. Generation is a
// monotonic counter used to discard results of submissions that were
// superseded by a reset or a history load while in flight.
type Session struct {
	sync.Mutex

	Id         uuid.UUID
	State      string
	Generation uint64

	Modality string
	Staged   *capture.InputPayload

	Analysis         *entity.DischargeAnalysis
	InputDescription string
	CurrentSlide     int

	Transcript []ChatMessage
	Chat       analyzer.ChatSession
	ChatBusy   bool

	FailureKind string
	LastError   string
}

// ReleaseStaged drops the staged input. The payload is owned by the session
// and is never shared, so dropping the reference is the release.
func (s *Session) ReleaseStaged() {
	s.Staged = nil
}

func (s *Session) AppendMessage(role, text string) {
	s.Transcript = append(s.Transcript, ChatMessage{Role: role, Text: text})
}
