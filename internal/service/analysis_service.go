package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"docdecode-be/internal/constant"
	"docdecode-be/internal/dto"
	"docdecode-be/internal/entity"
	"docdecode-be/internal/pkg/logger"
	"docdecode-be/internal/repository/memory"
	"docdecode-be/internal/repository/specification"
	"docdecode-be/internal/repository/unitofwork"
	"docdecode-be/pkg/analyzer"
	"docdecode-be/pkg/capture"
	"docdecode-be/pkg/events"
	pktNats "docdecode-be/pkg/nats"
	"docdecode-be/pkg/store"

	"github.com/google/uuid"
)

type IAnalysisService interface {
	CreateSession(ctx context.Context) (*dto.CreateAnalysisSessionResponse, error)
	GetSession(ctx context.Context, id uuid.UUID) (*dto.SessionStateResponse, error)
	SwitchModality(ctx context.Context, id uuid.UUID, req *dto.SwitchModalityRequest) (*dto.SessionStateResponse, error)
	StageText(ctx context.Context, id uuid.UUID, req *dto.StageTextRequest) (*dto.SessionStateResponse, error)
	StageFile(ctx context.Context, id uuid.UUID, file io.Reader, mediaType, filename string) (*dto.SessionStateResponse, error)
	StageCameraFrame(ctx context.Context, id uuid.UUID, req *dto.StageCameraFrameRequest) (*dto.SessionStateResponse, error)
	ClearStagedInput(ctx context.Context, id uuid.UUID) (*dto.SessionStateResponse, error)
	Analyze(ctx context.Context, id uuid.UUID, req *dto.AnalyzeRequest) (*dto.SessionStateResponse, error)
	SetSlide(ctx context.Context, id uuid.UUID, req *dto.SetSlideRequest) (*dto.SetSlideResponse, error)
	Reset(ctx context.Context, id uuid.UUID) (*dto.SessionStateResponse, error)
	LoadFromHistory(ctx context.Context, id uuid.UUID, recordId uuid.UUID) (*dto.SessionStateResponse, error)
}

type analysisService struct {
	sessions         *memory.SessionRepository
	provider         analyzer.Provider
	builder          *analyzer.RequestBuilder
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	log              logger.ILogger
}

func NewAnalysisService(
	sessions *memory.SessionRepository,
	provider analyzer.Provider,
	builder *analyzer.RequestBuilder,
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IAnalysisService {
	return &analysisService{
		sessions:         sessions,
		provider:         provider,
		builder:          builder,
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		log:              log,
	}
}

func (s *analysisService) CreateSession(ctx context.Context) (*dto.CreateAnalysisSessionResponse, error) {
	session := &store.Session{
		Id:       uuid.New(),
		State:    constant.SessionStateIdle,
		Modality: constant.ModalityText,
	}
	s.sessions.Save(session)

	s.log.Info("analysis", "Session created", map[string]interface{}{"session_id": session.Id})

	return &dto.CreateAnalysisSessionResponse{
		Id:       session.Id,
		State:    session.State,
		Modality: session.Modality,
	}, nil
}

func (s *analysisService) getSession(id uuid.UUID) (*store.Session, error) {
	session, found := s.sessions.Get(id.String())
	if !found {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *analysisService) GetSession(ctx context.Context, id uuid.UUID) (*dto.SessionStateResponse, error) {
	session, err := s.getSession(id)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()
	return snapshotLocked(session), nil
}

// SwitchModality changes the active input tab. Any staged input belongs to
// the previous modality and is released.
func (s *analysisService) SwitchModality(ctx context.Context, id uuid.UUID, req *dto.SwitchModalityRequest) (*dto.SessionStateResponse, error) {
	session, err := s.getSession(id)
	if err != nil {
		return nil, err
	}

	switch req.Modality {
	case constant.ModalityText, constant.ModalityFile, constant.ModalityCamera:
	default:
		return nil, ErrUnknownModality
	}

	session.Lock()
	defer session.Unlock()

	if session.State == constant.SessionStateSubmitting {
		return nil, ErrSubmissionInFlight
	}

	if session.Modality != req.Modality {
		session.Modality = req.Modality
		session.ReleaseStaged()
	}

	return snapshotLocked(session), nil
}

func (s *analysisService) StageText(ctx context.Context, id uuid.UUID, req *dto.StageTextRequest) (*dto.SessionStateResponse, error) {
	payload, err := capture.NormalizeText(req.Text)
	if err != nil {
		return nil, err
	}
	return s.stage(id, constant.ModalityText, payload)
}

func (s *analysisService) StageFile(ctx context.Context, id uuid.UUID, file io.Reader, mediaType, filename string) (*dto.SessionStateResponse, error) {
	payload, err := capture.NormalizeFile(file, mediaType, filename)
	if err != nil {
		return nil, err
	}
	return s.stage(id, constant.ModalityFile, payload)
}

func (s *analysisService) StageCameraFrame(ctx context.Context, id uuid.UUID, req *dto.StageCameraFrameRequest) (*dto.SessionStateResponse, error) {
	payload, err := capture.NormalizeCameraFrame(req.Frame, constant.CapturedFrameFilename)
	if err != nil {
		return nil, err
	}
	return s.stage(id, constant.ModalityCamera, payload)
}

func (s *analysisService) stage(id uuid.UUID, modality string, payload *capture.InputPayload) (*dto.SessionStateResponse, error) {
	session, err := s.getSession(id)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	if session.State == constant.SessionStateSubmitting {
		return nil, ErrSubmissionInFlight
	}

	// Staging replaces whatever was staged before, even within the same
	// modality. Retaking a camera frame is the common case.
	session.Modality = modality
	session.Staged = payload

	return snapshotLocked(session), nil
}

func (s *analysisService) ClearStagedInput(ctx context.Context, id uuid.UUID) (*dto.SessionStateResponse, error) {
	session, err := s.getSession(id)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	if session.State == constant.SessionStateSubmitting {
		return nil, ErrSubmissionInFlight
	}

	session.ReleaseStaged()
	return snapshotLocked(session), nil
}

func (s *analysisService) Analyze(ctx context.Context, id uuid.UUID, req *dto.AnalyzeRequest) (*dto.SessionStateResponse, error) {
	session, err := s.getSession(id)
	if err != nil {
		return nil, err
	}

	session.Lock()
	if session.State == constant.SessionStateSubmitting {
		session.Unlock()
		return nil, ErrSubmissionInFlight
	}
	if session.Staged == nil {
		session.Unlock()
		return nil, ErrNoStagedInput
	}

	payload := session.Staged
	session.ReleaseStaged() // consumed by this submission
	session.State = constant.SessionStateSubmitting
	session.FailureKind = ""
	session.LastError = ""
	generation := session.Generation

	spec := s.builder.Build(payload, req.Premium, premiumContext(req))
	session.Unlock()

	result, analyzeErr := s.provider.Analyze(ctx, spec)

	session.Lock()
	defer session.Unlock()

	// A reset or history load while the call was in flight bumps the
	// generation; this result belongs to a session that no longer exists.
	if session.Generation != generation {
		s.log.Warn("analysis", "Discarding stale analysis result", map[string]interface{}{"session_id": session.Id})
		return nil, ErrStaleSubmission
	}

	if analyzeErr != nil {
		session.State = constant.SessionStateFailed
		session.FailureKind = constant.FailureKindTransport
		if errors.Is(analyzeErr, analyzer.ErrMalformedModelResponse) {
			session.FailureKind = constant.FailureKindMalformedResponse
		}
		session.LastError = constant.AnalysisFailedMessage

		s.log.Error("analysis", "Analysis failed", map[string]interface{}{
			"session_id": session.Id,
			"kind":       session.FailureKind,
			"error":      analyzeErr.Error(),
		})
		s.publishAudit(ctx, "ANALYSIS_FAILED", map[string]interface{}{
			"session_id": session.Id,
			"kind":       session.FailureKind,
		})

		return nil, ErrAnalysisFailed
	}

	session.State = constant.SessionStateSucceeded
	session.Analysis = result
	session.InputDescription = payload.Description()
	session.CurrentSlide = 0
	session.Transcript = nil
	session.ChatBusy = false

	chat, chatErr := s.provider.NewChatSession(ctx, result, session.InputDescription)
	if chatErr != nil {
		// The slideshow is still usable without follow-up chat.
		s.log.Warn("analysis", "Chat session unavailable", map[string]interface{}{
			"session_id": session.Id,
			"error":      chatErr.Error(),
		})
	}
	session.Chat = chat

	s.archive(ctx, session.InputDescription, result)
	s.publishAudit(ctx, "ANALYSIS_SUCCEEDED", map[string]interface{}{
		"session_id":  session.Id,
		"slide_count": len(result.Slides),
	})

	return snapshotLocked(session), nil
}

// archive hands the result to the background consumer. Failure to enqueue is
// logged and swallowed; the user already has the analysis on screen.
func (s *analysisService) archive(ctx context.Context, originalInput string, result *entity.DischargeAnalysis) {
	analysisJSON, err := json.Marshal(result)
	if err != nil {
		s.log.Error("analysis", "Failed to serialize analysis for archive", map[string]interface{}{"error": err.Error()})
		return
	}

	msgPayload := dto.PublishArchiveAnalysisMessage{
		Id:            uuid.New(),
		OriginalInput: originalInput,
		AnalysisJSON:  analysisJSON,
		CreatedAt:     time.Now(),
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		s.log.Error("analysis", "Failed to marshal archive message", map[string]interface{}{"error": err.Error()})
		return
	}

	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		s.log.Error("analysis", "Failed to publish archive message", map[string]interface{}{"error": err.Error()})
	}
}

func (s *analysisService) publishAudit(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewAuditEvent(eventType, data)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("analysis", "Failed to publish audit event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func (s *analysisService) SetSlide(ctx context.Context, id uuid.UUID, req *dto.SetSlideRequest) (*dto.SetSlideResponse, error) {
	session, err := s.getSession(id)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	if session.Analysis == nil {
		return nil, ErrNoAnalysis
	}

	// Out-of-range indices clamp instead of failing; slide navigation is
	// driven by swipe gestures and races with fresh results.
	count := len(session.Analysis.Slides)
	index := req.Index
	if index >= count {
		index = count - 1
	}
	if index < 0 {
		index = 0
	}
	session.CurrentSlide = index

	return &dto.SetSlideResponse{
		CurrentSlide: session.CurrentSlide,
		SlideCount:   count,
	}, nil
}

// Reset returns the session to a blank IDLE state. An in-flight submission
// is not interrupted, but its result will be discarded on arrival.
func (s *analysisService) Reset(ctx context.Context, id uuid.UUID) (*dto.SessionStateResponse, error) {
	session, err := s.getSession(id)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	resetLocked(session)
	return snapshotLocked(session), nil
}

func (s *analysisService) LoadFromHistory(ctx context.Context, id uuid.UUID, recordId uuid.UUID) (*dto.SessionStateResponse, error) {
	session, err := s.getSession(id)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	record, err := uow.HistoryRepository().FindOne(ctx, specification.ByID{ID: recordId})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrHistoryNotFound
	}

	var analysis entity.DischargeAnalysis
	if err := json.Unmarshal(record.AnalysisJSON, &analysis); err != nil {
		return nil, err
	}
	// A record without slides cannot drive the viewer.
	if len(analysis.Slides) == 0 {
		return nil, analyzer.ErrMalformedModelResponse
	}

	session.Lock()
	defer session.Unlock()

	resetLocked(session)
	session.State = constant.SessionStateSucceeded
	session.Analysis = &analysis
	session.InputDescription = record.OriginalInput

	chat, chatErr := s.provider.NewChatSession(ctx, &analysis, record.OriginalInput)
	if chatErr != nil {
		s.log.Warn("analysis", "Chat session unavailable for history load", map[string]interface{}{
			"session_id": session.Id,
			"error":      chatErr.Error(),
		})
	}
	session.Chat = chat

	return snapshotLocked(session), nil
}

func resetLocked(session *store.Session) {
	session.Generation++
	session.State = constant.SessionStateIdle
	session.Modality = constant.ModalityText
	session.ReleaseStaged()
	session.Analysis = nil
	session.InputDescription = ""
	session.CurrentSlide = 0
	session.Transcript = nil
	session.Chat = nil
	session.ChatBusy = false
	session.FailureKind = ""
	session.LastError = ""
}

func snapshotLocked(session *store.Session) *dto.SessionStateResponse {
	res := &dto.SessionStateResponse{
		Id:               session.Id,
		State:            session.State,
		Modality:         session.Modality,
		HasStagedInput:   session.Staged != nil,
		InputDescription: session.InputDescription,
		CurrentSlide:     session.CurrentSlide,
		Analysis:         session.Analysis,
		FailureKind:      session.FailureKind,
		Error:            session.LastError,
	}
	if session.Staged != nil && session.Staged.Binary != nil {
		res.StagedFilename = session.Staged.Binary.Filename
	}
	return res
}

func premiumContext(req *dto.AnalyzeRequest) *analyzer.PremiumContext {
	if req == nil || !req.Premium {
		return nil
	}
	pctx := &analyzer.PremiumContext{}
	if req.Demographics != nil {
		pctx.Demographics = &entity.Demographics{
			Age:      req.Demographics.Age,
			Gender:   req.Demographics.Gender,
			Location: req.Demographics.Location,
		}
	}
	if req.Geolocation != nil {
		pctx.Geo = &entity.GeoPoint{
			Latitude:  req.Geolocation.Latitude,
			Longitude: req.Geolocation.Longitude,
		}
	}
	return pctx
}
