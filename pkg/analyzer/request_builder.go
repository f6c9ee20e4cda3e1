package analyzer

import (
	"fmt"
	"strings"

	"docdecode-be/internal/constant"
	"docdecode-be/internal/entity"
	"docdecode-be/pkg/capture"
)

// ModelConfig names the model variants the builder selects between.
type ModelConfig struct {
	Standard string
	Premium  string
}

// PremiumContext is the optional demographic/geolocation context that
// unlocks the extended instruction. Geo without Demographics is ignored.
type PremiumContext struct {
	Demographics *entity.Demographics
	Geo          *entity.GeoPoint
}

// RequestBuilder assembles the exact outbound request for a normalized
// payload. Pure assembly: no I/O, no validation beyond its inputs' own
// invariants.
type RequestBuilder struct {
	models ModelConfig
}

func NewRequestBuilder(models ModelConfig) *RequestBuilder {
	return &RequestBuilder{models: models}
}

// Build produces the request for the given payload. premium selects the
// extended instruction and model variant; the premium context is dropped
// entirely when premium is false, whatever the caller staged.
func (b *RequestBuilder) Build(payload *capture.InputPayload, premium bool, pctx *PremiumContext) *RequestSpec {
	var sb strings.Builder
	sb.WriteString(constant.AnalysisBasePromptV1)

	spec := &RequestSpec{
		Model:  b.models.Standard,
		Schema: ResponseSchema(),
	}

	if premium && pctx != nil && pctx.Demographics != nil {
		d := pctx.Demographics
		sb.WriteString("\n\n")
		sb.WriteString(fmt.Sprintf(constant.AnalysisPremiumPromptV1, d.Age, d.Gender, d.Location))

		if pctx.Geo != nil {
			sb.WriteString("\n")
			sb.WriteString(fmt.Sprintf(constant.AnalysisGroundingPromptV1, pctx.Geo.Latitude, pctx.Geo.Longitude))
			spec.Grounding = &entity.GeoPoint{
				Latitude:  pctx.Geo.Latitude,
				Longitude: pctx.Geo.Longitude,
			}
			spec.Model = b.models.Premium
		}
	}

	sb.WriteString("\n\n")
	sb.WriteString(constant.AnalysisOutputPromptV1)
	spec.Instruction = sb.String()

	if payload.IsText() {
		spec.NoteText = payload.Text
	} else {
		spec.Attachment = payload.Binary
	}

	return spec
}

// ResponseSchema declares the fixed analysis output contract:
// overallSummary and slides are mandatory; the remaining fields are only
// meaningful under premium and their absence is never an error.
func ResponseSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"overallSummary": {
				Type:        TypeString,
				Description: "A high-level summary of the entire discharge note in 2-3 sentences.",
			},
			"slides": {
				Type: TypeArray,
				Items: &Schema{
					Type: TypeObject,
					Properties: map[string]*Schema{
						"topic":         {Type: TypeString, Description: "The title of the topic (e.g., 'Your Diagnosis')."},
						"content":       {Type: TypeString, Description: "Detailed layman explanation of this specific topic."},
						"laymanSummary": {Type: TypeString, Description: "A one-sentence 'bottom line' for this topic."},
					},
					Required: []string{"topic", "content", "laymanSummary"},
				},
			},
			"demographicInsights": {
				Type:        TypeString,
				Description: "Premium: Deeper analysis based on patient demographics.",
			},
			"reminders": {
				Type: TypeArray,
				Items: &Schema{
					Type: TypeObject,
					Properties: map[string]*Schema{
						"title":       {Type: TypeString},
						"date":        {Type: TypeString, Description: "ISO format date or descriptive time"},
						"description": {Type: TypeString},
					},
				},
			},
			"nearbyFollowUp": {
				Type: TypeArray,
				Items: &Schema{
					Type: TypeObject,
					Properties: map[string]*Schema{
						"name":    {Type: TypeString},
						"address": {Type: TypeString},
						"uri":     {Type: TypeString},
					},
				},
			},
		},
		Required: []string{"overallSummary", "slides"},
	}
}
