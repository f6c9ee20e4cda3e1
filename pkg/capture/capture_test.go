package capture

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantText string
		wantErr  error
	}{
		{
			name:     "plain note",
			raw:      "Discharged after appendectomy.",
			wantText: "Discharged after appendectomy.",
		},
		{
			name:     "surrounding whitespace trimmed",
			raw:      "  keep wound dry \n",
			wantText: "keep wound dry",
		},
		{
			name:    "empty",
			raw:     "",
			wantErr: ErrNoInputSelected,
		},
		{
			name:    "whitespace only",
			raw:     "   \n\t ",
			wantErr: ErrNoInputSelected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := NormalizeText(tt.raw)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !payload.IsText() {
				t.Error("expected text payload")
			}
			if payload.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", payload.Text, tt.wantText)
			}
			if payload.Description() != tt.wantText {
				t.Errorf("Description() = %q, want %q", payload.Description(), tt.wantText)
			}
		})
	}
}

func TestNormalizeFile(t *testing.T) {
	content := []byte("%PDF-1.4 fake document body")

	payload, err := NormalizeFile(strings.NewReader(string(content)), "application/pdf", "summary.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.IsText() {
		t.Fatal("expected binary payload")
	}
	if payload.Binary.MediaType != "application/pdf" {
		t.Errorf("MediaType = %q, want application/pdf", payload.Binary.MediaType)
	}
	if payload.Description() != "Multimodal input (summary.pdf)" {
		t.Errorf("Description() = %q", payload.Description())
	}

	decoded, err := base64.StdEncoding.DecodeString(payload.Base64())
	if err != nil {
		t.Fatalf("Base64() output did not decode: %v", err)
	}
	if string(decoded) != string(content) {
		t.Error("Base64 round trip lost content")
	}
}

func TestNormalizeFileSniffsMediaType(t *testing.T) {
	payload, err := NormalizeFile(strings.NewReader("just some plain text"), "", "note.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(payload.Binary.MediaType, "text/plain") {
		t.Errorf("MediaType = %q, want text/plain prefix", payload.Binary.MediaType)
	}
}

func TestNormalizeFileEmpty(t *testing.T) {
	_, err := NormalizeFile(strings.NewReader(""), "application/pdf", "empty.pdf")
	if !errors.Is(err, ErrNoInputSelected) {
		t.Errorf("err = %v, want ErrNoInputSelected", err)
	}
}

func TestNormalizeCameraFrame(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}
	encoded := base64.StdEncoding.EncodeToString(jpeg)

	tests := []struct {
		name     string
		dataURL  string
		wantMIME string
		wantErr  error
	}{
		{
			name:     "data URL with mime",
			dataURL:  "data:image/png;base64," + encoded,
			wantMIME: "image/png",
		},
		{
			name:     "bare base64 defaults to jpeg",
			dataURL:  encoded,
			wantMIME: "image/jpeg",
		},
		{
			name:    "empty frame",
			dataURL: "",
			wantErr: ErrCameraUnavailable,
		},
		{
			name:    "bad base64",
			dataURL: "data:image/jpeg;base64,!!!not-base64!!!",
			wantErr: ErrInputReadError,
		},
		{
			name:    "data URL without comma",
			dataURL: "data:image/jpeg;base64",
			wantErr: ErrInputReadError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := NormalizeCameraFrame(tt.dataURL, "captured-note.jpg")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if payload.Binary.MediaType != tt.wantMIME {
				t.Errorf("MediaType = %q, want %q", payload.Binary.MediaType, tt.wantMIME)
			}
			if payload.Binary.Filename != "captured-note.jpg" {
				t.Errorf("Filename = %q", payload.Binary.Filename)
			}
			if string(payload.Binary.Data) != string(jpeg) {
				t.Error("decoded frame bytes do not match")
			}
		})
	}
}
