package capture

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Capture errors. Controllers map these to user-correctable responses; none
// of them is fatal.
var (
	// ErrNoInputSelected means the chosen modality has nothing to submit:
	// empty/whitespace-only text, or no file/photo staged.
	ErrNoInputSelected = errors.New("no input selected")

	// ErrInputReadError means the chosen file could not be read or decoded.
	ErrInputReadError = errors.New("failed to read input")

	// ErrCameraUnavailable means no usable camera frame was delivered
	// (permission denied, no device, or an empty capture).
	ErrCameraUnavailable = errors.New("camera unavailable")
)

// BinaryInput is the normalized form of a file or captured camera frame.
type BinaryInput struct {
	Data      []byte
	MediaType string
	Filename  string
}

// InputPayload is a tagged union over the two input shapes: exactly one of
// Text or Binary is populated, never both.
type InputPayload struct {
	Text   string
	Binary *BinaryInput
}

func (p *InputPayload) IsText() bool {
	return p != nil && p.Binary == nil
}

// Description is the original-input label stored alongside an archived
// analysis: the note text itself, or a marker naming the attached file.
func (p *InputPayload) Description() string {
	if p == nil {
		return ""
	}
	if p.Binary != nil {
		return fmt.Sprintf("Multimodal input (%s)", p.Binary.Filename)
	}
	return p.Text
}

// Base64 returns the binary content re-encoded for inline transmission.
// Empty for text payloads.
func (p *InputPayload) Base64() string {
	if p == nil || p.Binary == nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(p.Binary.Data)
}

// NormalizeText produces a text payload from pasted input. The text is
// trimmed and otherwise carried verbatim.
func NormalizeText(raw string) (*InputPayload, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrNoInputSelected
	}
	return &InputPayload{Text: trimmed}, nil
}

// NormalizeFile reads the chosen file fully and produces a binary payload.
// The declared media type wins; the sniffed content type is the fallback.
func NormalizeFile(r io.Reader, mediaType, filename string) (*InputPayload, error) {
	if r == nil {
		return nil, ErrNoInputSelected
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputReadError, err)
	}
	if len(data) == 0 {
		return nil, ErrNoInputSelected
	}
	if strings.TrimSpace(mediaType) == "" {
		mediaType = http.DetectContentType(data)
	}
	return &InputPayload{Binary: &BinaryInput{
		Data:      data,
		MediaType: mediaType,
		Filename:  filename,
	}}, nil
}

// NormalizeCameraFrame decodes a captured still frame delivered as a base64
// data URL (data:image/jpeg;base64,...). From this point on the frame is
// treated exactly like an uploaded file.
func NormalizeCameraFrame(dataURL, filename string) (*InputPayload, error) {
	s := strings.TrimSpace(dataURL)
	if s == "" {
		return nil, ErrCameraUnavailable
	}

	var hintMIME string
	if strings.HasPrefix(s, "data:") {
		idx := strings.IndexByte(s, ',')
		if idx < 0 {
			return nil, fmt.Errorf("%w: malformed data URL", ErrInputReadError)
		}
		meta := s[len("data:"):idx]
		if semi := strings.IndexByte(meta, ';'); semi >= 0 {
			hintMIME = meta[:semi]
		} else {
			hintMIME = meta
		}
		s = s[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// URL-safe alphabet as a fallback for client-side variations.
		if data, err = base64.URLEncoding.DecodeString(s); err != nil {
			return nil, fmt.Errorf("%w: bad base64: %v", ErrInputReadError, err)
		}
	}
	if len(data) == 0 {
		return nil, ErrCameraUnavailable
	}
	if hintMIME == "" {
		hintMIME = "image/jpeg"
	}
	return &InputPayload{Binary: &BinaryInput{
		Data:      data,
		MediaType: hintMIME,
		Filename:  filename,
	}}, nil
}
