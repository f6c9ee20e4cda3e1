package dto

import (
	"docdecode-be/internal/entity"

	"github.com/google/uuid"
)

type CreateAnalysisSessionResponse struct {
	Id       uuid.UUID `json:"id"`
	State    string    `json:"state"`
	Modality string    `json:"modality"`
}

type StageTextRequest struct {
	Text string `json:"text" validate:"required"`
}

// StageCameraFrameRequest carries one captured frame as a data URL. The
// browser owns the live stream; the backend only ever sees single frames.
type StageCameraFrameRequest struct {
	Frame string `json:"frame" validate:"required"`
}

type SwitchModalityRequest struct {
	Modality string `json:"modality" validate:"required,oneof=text file camera"`
}

type AnalyzeRequest struct {
	Premium      bool             `json:"premium"`
	Demographics *DemographicsDTO `json:"demographics,omitempty"`
	Geolocation  *GeolocationDTO  `json:"geolocation,omitempty"`
}

type DemographicsDTO struct {
	Age      string `json:"age"`
	Gender   string `json:"gender"`
	Location string `json:"location"`
}

type GeolocationDTO struct {
	Latitude  float64 `json:"latitude" validate:"required"`
	Longitude float64 `json:"longitude" validate:"required"`
}

type SessionStateResponse struct {
	Id               uuid.UUID                 `json:"id"`
	State            string                    `json:"state"`
	Modality         string                    `json:"modality"`
	HasStagedInput   bool                      `json:"has_staged_input"`
	StagedFilename   string                    `json:"staged_filename,omitempty"`
	InputDescription string                    `json:"input_description,omitempty"`
	CurrentSlide     int                       `json:"current_slide"`
	Analysis         *entity.DischargeAnalysis `json:"analysis,omitempty"`
	FailureKind      string                    `json:"failure_kind,omitempty"`
	Error            string                    `json:"error,omitempty"`
}

type SetSlideRequest struct {
	Index int `json:"index"`
}

type SetSlideResponse struct {
	CurrentSlide int `json:"current_slide"`
	SlideCount   int `json:"slide_count"`
}
