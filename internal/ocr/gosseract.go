//go:build gosseract

package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

const EngineGosseract = "gosseract"

func init() {
	Register(EngineGosseract, func(cfg Config) (Recognizer, error) {
		lang := cfg.Language
		if lang == "" {
			lang = defaultLanguage
		}
		return &Gosseract{language: lang}, nil
	})
}

// Gosseract runs tesseract in process through its C API. A client is not
// safe for concurrent use, so each call gets its own.
type Gosseract struct {
	language string
}

func (g *Gosseract) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", ErrEmptyImage
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(g.language); err != nil {
		return "", fmt.Errorf("set language %q: %w", g.language, err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("load image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return text, nil
}
