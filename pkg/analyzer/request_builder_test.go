package analyzer

import (
	"strings"
	"testing"

	"docdecode-be/internal/entity"
	"docdecode-be/pkg/capture"
)

func testBuilder() *RequestBuilder {
	return NewRequestBuilder(ModelConfig{
		Standard: "model-standard",
		Premium:  "model-premium",
	})
}

func textPayload(t *testing.T, text string) *capture.InputPayload {
	t.Helper()
	payload, err := capture.NormalizeText(text)
	if err != nil {
		t.Fatalf("NormalizeText: %v", err)
	}
	return payload
}

func TestBuildTextRequest(t *testing.T) {
	spec := testBuilder().Build(textPayload(t, "take ibuprofen twice daily"), false, nil)

	if spec.Model != "model-standard" {
		t.Errorf("Model = %q, want model-standard", spec.Model)
	}
	if spec.NoteText != "take ibuprofen twice daily" {
		t.Errorf("NoteText = %q", spec.NoteText)
	}
	if spec.Attachment != nil {
		t.Error("text request must not carry an attachment")
	}
	if spec.Grounding != nil {
		t.Error("standard request must not carry grounding")
	}
	if spec.Schema == nil {
		t.Fatal("schema missing")
	}
}

func TestBuildBinaryRequest(t *testing.T) {
	payload, err := capture.NormalizeFile(strings.NewReader("fake bytes"), "application/pdf", "doc.pdf")
	if err != nil {
		t.Fatalf("NormalizeFile: %v", err)
	}

	spec := testBuilder().Build(payload, false, nil)

	if spec.NoteText != "" {
		t.Errorf("NoteText = %q, want empty for binary payload", spec.NoteText)
	}
	if spec.Attachment == nil || spec.Attachment.Filename != "doc.pdf" {
		t.Error("attachment not carried through")
	}
}

func TestBuildPremiumContextDroppedWhenNotPremium(t *testing.T) {
	pctx := &PremiumContext{
		Demographics: &entity.Demographics{Age: "62", Gender: "female", Location: "Berlin"},
		Geo:          &entity.GeoPoint{Latitude: 52.52, Longitude: 13.405},
	}

	spec := testBuilder().Build(textPayload(t, "note"), false, pctx)

	if spec.Model != "model-standard" {
		t.Errorf("Model = %q, want model-standard", spec.Model)
	}
	if spec.Grounding != nil {
		t.Error("grounding must be dropped when premium is off")
	}
	if strings.Contains(spec.Instruction, "62") || strings.Contains(spec.Instruction, "Berlin") {
		t.Error("demographics leaked into a non-premium instruction")
	}
}

func TestBuildPremiumWithGeo(t *testing.T) {
	pctx := &PremiumContext{
		Demographics: &entity.Demographics{Age: "62", Gender: "female", Location: "Berlin"},
		Geo:          &entity.GeoPoint{Latitude: 52.52, Longitude: 13.405},
	}

	spec := testBuilder().Build(textPayload(t, "note"), true, pctx)

	if spec.Model != "model-premium" {
		t.Errorf("Model = %q, want model-premium", spec.Model)
	}
	if spec.Grounding == nil {
		t.Fatal("grounding missing")
	}
	if spec.Grounding.Latitude != 52.52 {
		t.Errorf("Grounding.Latitude = %v", spec.Grounding.Latitude)
	}
	if !strings.Contains(spec.Instruction, "62") {
		t.Error("demographics missing from premium instruction")
	}
	if !strings.Contains(spec.Instruction, "52.52") {
		t.Error("coordinates missing from premium instruction")
	}
}

func TestBuildPremiumWithoutGeoKeepsStandardModel(t *testing.T) {
	pctx := &PremiumContext{
		Demographics: &entity.Demographics{Age: "40", Gender: "male", Location: "Lagos"},
	}

	spec := testBuilder().Build(textPayload(t, "note"), true, pctx)

	if spec.Model != "model-standard" {
		t.Errorf("Model = %q, premium model is reserved for grounded requests", spec.Model)
	}
	if spec.Grounding != nil {
		t.Error("grounding set without coordinates")
	}
	if !strings.Contains(spec.Instruction, "Lagos") {
		t.Error("demographics missing from premium instruction")
	}
}

func TestResponseSchemaContract(t *testing.T) {
	schema := ResponseSchema()

	if schema.Type != TypeObject {
		t.Errorf("root Type = %q", schema.Type)
	}

	wantRequired := map[string]bool{"overallSummary": false, "slides": false}
	for _, field := range schema.Required {
		wantRequired[field] = true
	}
	for field, seen := range wantRequired {
		if !seen {
			t.Errorf("required field %q missing", field)
		}
	}

	slides, ok := schema.Properties["slides"]
	if !ok || slides.Type != TypeArray || slides.Items == nil {
		t.Fatal("slides must be an array with item schema")
	}
	for _, field := range []string{"topic", "content", "laymanSummary"} {
		if _, ok := slides.Items.Properties[field]; !ok {
			t.Errorf("slide item missing %q", field)
		}
	}
}
