package service

import (
	"context"
	"errors"
	"testing"

	"docdecode-be/internal/constant"
	"docdecode-be/internal/dto"
	"docdecode-be/internal/entity"
	"docdecode-be/pkg/analyzer"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// analyzedSession runs a full successful analysis and returns the shared
// repo plus the session id, so chat tests start from a SUCCEEDED session.
func analyzedSession(t *testing.T, chatFn func(ctx context.Context, text string) (string, error)) (IChatService, uuid.UUID) {
	t.Helper()

	provider := &fakeProvider{
		analyzeFn: func(ctx context.Context, spec *analyzer.RequestSpec) (*entity.DischargeAnalysis, error) {
			return goodAnalysis(), nil
		},
		chatFn: chatFn,
	}
	svc, sessions, _ := newTestService(provider)
	ctx := context.Background()

	created, err := svc.CreateSession(ctx)
	assert.NoError(t, err)
	_, err = svc.StageText(ctx, created.Id, &dto.StageTextRequest{Text: "note"})
	assert.NoError(t, err)
	_, err = svc.Analyze(ctx, created.Id, &dto.AnalyzeRequest{})
	assert.NoError(t, err)

	return NewChatService(sessions, nopLogger{}), created.Id
}

func TestSendMessageAppendsBothTurns(t *testing.T) {
	chat, id := analyzedSession(t, func(ctx context.Context, text string) (string, error) {
		return "You can shower after 48 hours.", nil
	})

	res, err := chat.SendMessage(context.Background(), id, &dto.SendChatMessageRequest{Message: "When can I shower?"})
	assert.NoError(t, err)
	assert.Equal(t, "You can shower after 48 hours.", res.Reply)

	assert.Len(t, res.Transcript, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, res.Transcript[0].Role)
	assert.Equal(t, "When can I shower?", res.Transcript[0].Text)
	assert.Equal(t, constant.ChatMessageRoleModel, res.Transcript[1].Role)
}

func TestSendMessageFallbackOnFailure(t *testing.T) {
	chat, id := analyzedSession(t, func(ctx context.Context, text string) (string, error) {
		return "", errors.New("deadline exceeded")
	})
	ctx := context.Background()

	res, err := chat.SendMessage(ctx, id, &dto.SendChatMessageRequest{Message: "Is this normal?"})
	assert.NoError(t, err, "a provider failure must not surface as an HTTP error")
	assert.Equal(t, constant.ChatFallbackMessage, res.Reply)

	// The user turn stays in the transcript, followed by the apology
	assert.Len(t, res.Transcript, 2)
	assert.Equal(t, "Is this normal?", res.Transcript[0].Text)
	assert.Equal(t, constant.ChatFallbackMessage, res.Transcript[1].Text)

	// A later message keeps appending after the apology
	res, err = chat.SendMessage(ctx, id, &dto.SendChatMessageRequest{Message: "Trying again"})
	assert.NoError(t, err)
	assert.Len(t, res.Transcript, 4)
}

func TestSendMessageBusyGuard(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	chat, id := analyzedSession(t, func(ctx context.Context, text string) (string, error) {
		close(entered)
		<-release
		return "done", nil
	})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := chat.SendMessage(ctx, id, &dto.SendChatMessageRequest{Message: "first"})
		done <- err
	}()
	<-entered

	_, err := chat.SendMessage(ctx, id, &dto.SendChatMessageRequest{Message: "second"})
	assert.ErrorIs(t, err, ErrChatBusy)

	transcript, err := chat.GetTranscript(ctx, id)
	assert.NoError(t, err)
	assert.True(t, transcript.Busy)

	close(release)
	assert.NoError(t, <-done)

	transcript, _ = chat.GetTranscript(ctx, id)
	assert.False(t, transcript.Busy)
	assert.Len(t, transcript.Transcript, 2)
}

func TestChatUnavailableBeforeAnalysis(t *testing.T) {
	svc, sessions, _ := newTestService(&fakeProvider{})
	ctx := context.Background()

	created, _ := svc.CreateSession(ctx)
	chat := NewChatService(sessions, nopLogger{})

	_, err := chat.SendMessage(ctx, created.Id, &dto.SendChatMessageRequest{Message: "hello"})
	assert.ErrorIs(t, err, ErrChatUnavailable)
}

func TestChatSessionNotFound(t *testing.T) {
	_, sessions, _ := newTestService(&fakeProvider{})
	chat := NewChatService(sessions, nopLogger{})

	_, err := chat.SendMessage(context.Background(), uuid.New(), &dto.SendChatMessageRequest{Message: "hello"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSendMessageStaleReplyDiscardedAfterReset(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	provider := &fakeProvider{
		analyzeFn: func(ctx context.Context, spec *analyzer.RequestSpec) (*entity.DischargeAnalysis, error) {
			return goodAnalysis(), nil
		},
		chatFn: func(ctx context.Context, text string) (string, error) {
			close(entered)
			<-release
			return "late reply", nil
		},
	}
	svc, sessions, _ := newTestService(provider)
	ctx := context.Background()

	created, _ := svc.CreateSession(ctx)
	svc.StageText(ctx, created.Id, &dto.StageTextRequest{Text: "note"})
	_, err := svc.Analyze(ctx, created.Id, &dto.AnalyzeRequest{})
	assert.NoError(t, err)

	chat := NewChatService(sessions, nopLogger{})

	done := make(chan error, 1)
	go func() {
		_, err := chat.SendMessage(ctx, created.Id, &dto.SendChatMessageRequest{Message: "hello"})
		done <- err
	}()
	<-entered

	_, err = svc.Reset(ctx, created.Id)
	assert.NoError(t, err)

	close(release)
	assert.ErrorIs(t, <-done, ErrStaleSubmission)

	// The reply from before the reset never reaches the fresh transcript
	state, _ := svc.GetSession(ctx, created.Id)
	assert.Equal(t, constant.SessionStateIdle, state.State)

	transcript, err := chat.GetTranscript(ctx, created.Id)
	assert.NoError(t, err)
	assert.Empty(t, transcript.Transcript)
	assert.False(t, transcript.Busy)
}
