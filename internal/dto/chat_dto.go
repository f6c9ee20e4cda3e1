package dto

type SendChatMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

type ChatMessageDTO struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type SendChatMessageResponse struct {
	Reply      string           `json:"reply"`
	Transcript []ChatMessageDTO `json:"transcript"`
}

type GetTranscriptResponse struct {
	Busy       bool             `json:"busy"`
	Transcript []ChatMessageDTO `json:"transcript"`
}
