package aigate

import (
	"encoding/base64"
	"errors"
	"strings"
)

// Payload is inline binary media owned by the caller. The gateway never
// stores it.
type Payload struct {
	// MimeType is the media type, e.g. "image/png" or "audio/mpeg".
	MimeType string `json:"mimeType"`
	// Data is the base64-encoded (standard encoding) content.
	Data string `json:"data"`
}

// NewPayload encodes raw bytes into a payload.
func NewPayload(mimeType string, data []byte) Payload {
	return Payload{
		MimeType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(data),
	}
}

// IsImage reports whether the payload carries an image.
func (p Payload) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(p.MimeType), "image/")
}

// IsAudio reports whether the payload carries audio.
func (p Payload) IsAudio() bool {
	return strings.HasPrefix(strings.ToLower(p.MimeType), "audio/")
}

// Bytes decodes the base64 content. A data URI prefix is tolerated.
func (p Payload) Bytes() ([]byte, error) {
	data := p.Data
	if i := strings.Index(data, ";base64,"); i >= 0 && strings.HasPrefix(data, "data:") {
		data = data[i+len(";base64,"):]
	}
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, &PayloadError{Op: "decode", MimeType: p.MimeType, Err: err}
	}
	return b, nil
}

// Validate checks the payload has a MIME type and decodable content.
func (p Payload) Validate() error {
	if p.MimeType == "" {
		return &PayloadError{Op: "validate", MimeType: "unknown", Err: errors.New("mime type is required")}
	}
	if p.Data == "" {
		return &PayloadError{Op: "validate", MimeType: p.MimeType, Err: ErrEmptyInput}
	}
	_, err := p.Bytes()
	return err
}
