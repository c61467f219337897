package align

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"slide-coach/internal/models"
	"slide-coach/shared/ai"

	"google.golang.org/genai"
)

var (
	ErrNotAnImage    = errors.New("slide data URL is not a data:image/ URL")
	ErrImageTooLarge = errors.New("slide image exceeds the maximum decoded size")
	ErrBadDataURL    = errors.New("malformed data URL")
)

// DecodeImageDataURL validates and decodes a slide image data URL. The
// URL must use the data:image/ scheme and the decoded payload must not
// exceed maxBytes. Returns the decoded bytes and MIME type.
func DecodeImageDataURL(dataURL string, maxBytes int) ([]byte, string, error) {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return nil, "", ErrNotAnImage
	}

	comma := strings.Index(dataURL, ",")
	if comma < 0 {
		return nil, "", ErrBadDataURL
	}

	header := dataURL[len("data:"):comma]
	payload := dataURL[comma+1:]

	mime := header
	if semi := strings.Index(header, ";"); semi >= 0 {
		if !strings.Contains(header[semi:], "base64") {
			return nil, "", fmt.Errorf("%w: unsupported encoding %q", ErrBadDataURL, header)
		}
		mime = header[:semi]
	}

	// Estimate before decoding so an oversized payload never gets
	// buffered in full.
	if len(payload)/4*3 > maxBytes {
		return nil, "", ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrBadDataURL, err)
	}
	if len(data) > maxBytes {
		return nil, "", ErrImageTooLarge
	}

	return data, mime, nil
}

// AnalyzeSlide runs vision analysis for one slide image and parses the
// result into a SlideAnalysis.
func (e *Engine) AnalyzeSlide(ctx context.Context, slideNumber int, slide models.SlideInput) (*models.SlideAnalysis, error) {
	data, mime, err := DecodeImageDataURL(slide.DataURL, e.cfg.Pipeline.MaxImageBytes)
	if err != nil {
		return nil, err
	}

	response, err := e.invoker.Invoke(ctx, ai.StageVision, ai.BuildVisionPrompt(),
		genai.NewPartFromBytes(data, mime))
	if err != nil {
		return nil, fmt.Errorf("vision analysis for slide %d failed: %w", slideNumber, err)
	}

	var analysis models.SlideAnalysis
	if err := ai.ExtractObject(response, &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse vision analysis for slide %d: %w", slideNumber, err)
	}
	if analysis.MainTopic == "" {
		return nil, fmt.Errorf("vision analysis for slide %d has no main topic", slideNumber)
	}

	return &analysis, nil
}
