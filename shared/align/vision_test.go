package align

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestDecodeImageDataURL(t *testing.T) {
	payload := []byte("fake png bytes")
	encoded := base64.StdEncoding.EncodeToString(payload)

	tests := []struct {
		name     string
		dataURL  string
		maxBytes int
		wantMIME string
		wantErr  error
	}{
		{
			name:     "ValidPNG",
			dataURL:  "data:image/png;base64," + encoded,
			maxBytes: 1024,
			wantMIME: "image/png",
		},
		{
			name:     "ValidJPEG",
			dataURL:  "data:image/jpeg;base64," + encoded,
			maxBytes: 1024,
			wantMIME: "image/jpeg",
		},
		{
			name:     "NotAnImage",
			dataURL:  "data:application/pdf;base64," + encoded,
			maxBytes: 1024,
			wantErr:  ErrNotAnImage,
		},
		{
			name:     "PlainURL",
			dataURL:  "https://example.com/slide.png",
			maxBytes: 1024,
			wantErr:  ErrNotAnImage,
		},
		{
			name:     "MissingComma",
			dataURL:  "data:image/png;base64",
			maxBytes: 1024,
			wantErr:  ErrBadDataURL,
		},
		{
			name:     "TooLarge",
			dataURL:  "data:image/png;base64," + encoded,
			maxBytes: 4,
			wantErr:  ErrImageTooLarge,
		},
		{
			name:     "BadBase64",
			dataURL:  "data:image/png;base64,!!!not-base64!!!",
			maxBytes: 1024,
			wantErr:  ErrBadDataURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, mime, err := DecodeImageDataURL(tt.dataURL, tt.maxBytes)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeImageDataURL() error = %v", err)
			}
			if mime != tt.wantMIME {
				t.Errorf("mime = %q, want %q", mime, tt.wantMIME)
			}
			if string(data) != string(payload) {
				t.Errorf("decoded %d bytes, want the original payload", len(data))
			}
		})
	}
}

func TestDecodeImageDataURLRejectsBeforeDecoding(t *testing.T) {
	// A payload whose base64 length alone exceeds the cap must be
	// rejected without being decoded.
	huge := strings.Repeat("A", 8_000_000)
	_, _, err := DecodeImageDataURL("data:image/png;base64,"+huge, 5_000_000)
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("error = %v, want ErrImageTooLarge", err)
	}
}
