package service

import (
	"context"

	"docdecode-be/internal/constant"
	"docdecode-be/internal/dto"
	"docdecode-be/internal/pkg/logger"
	"docdecode-be/internal/repository/memory"
	"docdecode-be/pkg/store"

	"github.com/google/uuid"
)

type IChatService interface {
	SendMessage(ctx context.Context, sessionId uuid.UUID, req *dto.SendChatMessageRequest) (*dto.SendChatMessageResponse, error)
	GetTranscript(ctx context.Context, sessionId uuid.UUID) (*dto.GetTranscriptResponse, error)
}

type chatService struct {
	sessions *memory.SessionRepository
	log      logger.ILogger
}

func NewChatService(sessions *memory.SessionRepository, log logger.ILogger) IChatService {
	return &chatService{
		sessions: sessions,
		log:      log,
	}
}

// SendMessage appends the user's message optimistically, then asks the model
// for a reply. A provider failure never surfaces as an HTTP error: the
// transcript gets an apology turn instead, and the user can retry.
func (c *chatService) SendMessage(ctx context.Context, sessionId uuid.UUID, req *dto.SendChatMessageRequest) (*dto.SendChatMessageResponse, error) {
	session, found := c.sessions.Get(sessionId.String())
	if !found {
		return nil, ErrSessionNotFound
	}

	session.Lock()
	if session.State != constant.SessionStateSucceeded || session.Chat == nil {
		session.Unlock()
		return nil, ErrChatUnavailable
	}
	if session.ChatBusy {
		session.Unlock()
		return nil, ErrChatBusy
	}

	session.AppendMessage(constant.ChatMessageRoleUser, req.Message)
	session.ChatBusy = true
	chat := session.Chat
	generation := session.Generation
	session.Unlock()

	reply, err := chat.SendMessage(ctx, req.Message)

	session.Lock()
	defer session.Unlock()

	// A reset or history load while the call was in flight bumps the
	// generation; this reply belongs to a transcript that no longer exists.
	if session.Generation != generation {
		c.log.Warn("chat", "Discarding stale chat reply", map[string]interface{}{"session_id": session.Id})
		return nil, ErrStaleSubmission
	}

	session.ChatBusy = false

	if err != nil {
		c.log.Error("chat", "Chat reply failed", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
		reply = constant.ChatFallbackMessage
	}

	session.AppendMessage(constant.ChatMessageRoleModel, reply)

	return &dto.SendChatMessageResponse{
		Reply:      reply,
		Transcript: transcriptDTO(session),
	}, nil
}

func (c *chatService) GetTranscript(ctx context.Context, sessionId uuid.UUID) (*dto.GetTranscriptResponse, error) {
	session, found := c.sessions.Get(sessionId.String())
	if !found {
		return nil, ErrSessionNotFound
	}

	session.Lock()
	defer session.Unlock()

	return &dto.GetTranscriptResponse{
		Busy:       session.ChatBusy,
		Transcript: transcriptDTO(session),
	}, nil
}

func transcriptDTO(session *store.Session) []dto.ChatMessageDTO {
	out := make([]dto.ChatMessageDTO, 0, len(session.Transcript))
	for _, m := range session.Transcript {
		out = append(out, dto.ChatMessageDTO{Role: m.Role, Text: m.Text})
	}
	return out
}
