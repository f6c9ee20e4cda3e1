package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"docdecode-be/internal/constant"
	"docdecode-be/internal/entity"
	"docdecode-be/pkg/analyzer"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Engine implements analyzer.Provider on the Gemini API. The client is
// constructed once at startup and shared; chat sessions keep it alive for
// their whole lifetime.
type Engine struct {
	client    *genai.Client
	chatModel string
}

func NewEngine(ctx context.Context, apiKey, chatModel string) (*Engine, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("GOOGLE_GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Engine{
		client:    cl,
		chatModel: strings.TrimSpace(chatModel),
	}, nil
}

func (e *Engine) Close() error {
	return e.client.Close()
}

func (e *Engine) Analyze(ctx context.Context, spec *analyzer.RequestSpec) (*entity.DischargeAnalysis, error) {
	m := e.client.GenerativeModel(strings.TrimSpace(spec.Model))
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenaiSchema(spec.Schema),
	}

	if spec.Grounding != nil {
		// The SDK exposes no dedicated maps tool; the search-retrieval tool
		// plus the coordinates already carried in the instruction covers the
		// nearby-care grounding. Grounding metadata on the reply is ignored.
		m.Tools = []*genai.Tool{{GoogleSearchRetrieval: &genai.GoogleSearchRetrieval{}}}
	}

	parts := []genai.Part{genai.Text(spec.Instruction)}
	if spec.Attachment != nil {
		parts = append(parts, &genai.Blob{
			MIMEType: spec.Attachment.MediaType,
			Data:     spec.Attachment.Data,
		})
	} else {
		parts = append(parts, genai.Text("Discharge Note:\n"+spec.NoteText))
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini analyze: %w", err)
	}

	txt := stripCodeFences(firstText(resp))
	if txt == "" {
		return nil, fmt.Errorf("%w: empty reply", analyzer.ErrMalformedModelResponse)
	}

	var out entity.DischargeAnalysis
	if err := json.Unmarshal([]byte(txt), &out); err != nil {
		return nil, fmt.Errorf("%w: bad JSON: %v", analyzer.ErrMalformedModelResponse, err)
	}
	if len(out.Slides) == 0 {
		return nil, fmt.Errorf("%w: no slides", analyzer.ErrMalformedModelResponse)
	}
	return &out, nil
}

func (e *Engine) NewChatSession(ctx context.Context, analysis *entity.DischargeAnalysis, originalInput string) (analyzer.ChatSession, error) {
	serialized, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize analysis for chat context: %w", err)
	}

	m := e.client.GenerativeModel(e.chatModel)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{
			genai.Text(fmt.Sprintf(constant.ChatSystemInstructionV1, originalInput, string(serialized))),
		},
	}

	return &chatSession{cs: m.StartChat()}, nil
}

// chatSession wraps the SDK chat handle behind the opaque capability the
// core consumes. The SDK owns the conversation history.
type chatSession struct {
	cs *genai.ChatSession
}

func (c *chatSession) SendMessage(ctx context.Context, text string) (string, error) {
	resp, err := c.cs.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return "", fmt.Errorf("gemini chat: %w", err)
	}
	reply := firstText(resp)
	if strings.TrimSpace(reply) == "" {
		return constant.ChatEmptyReplyMessage, nil
	}
	return reply, nil
}

func toGenaiSchema(s *analyzer.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        toGenaiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Items:       toGenaiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

func toGenaiType(t string) genai.Type {
	switch t {
	case analyzer.TypeObject:
		return genai.TypeObject
	case analyzer.TypeArray:
		return genai.TypeArray
	case analyzer.TypeString:
		return genai.TypeString
	default:
		return genai.TypeUnspecified
	}
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func ptrFloat32(v float32) *float32 { return &v }
