package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const (
	EngineTesseract = "tesseract"

	defaultBinary   = "tesseract"
	defaultLanguage = "eng"
	defaultTimeout  = 30 * time.Second
)

var ErrEmptyImage = errors.New("empty image")

func init() {
	Register(EngineTesseract, func(cfg Config) (Recognizer, error) {
		return NewTesseractCLI(cfg), nil
	})
}

// TesseractCLI shells out to the tesseract binary, streaming the image on
// stdin and reading the text from stdout.
type TesseractCLI struct {
	binary   string
	language string
	timeout  time.Duration
}

func NewTesseractCLI(cfg Config) *TesseractCLI {
	t := &TesseractCLI{binary: cfg.Binary, language: cfg.Language, timeout: cfg.Timeout}
	if t.binary == "" {
		t.binary = defaultBinary
	}
	if t.language == "" {
		t.language = defaultLanguage
	}
	if t.timeout <= 0 {
		t.timeout = defaultTimeout
	}
	return t
}

func (t *TesseractCLI) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", ErrEmptyImage
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.binary, "stdin", "stdout", "-l", t.language)
	cmd.Stdin = bytes.NewReader(image)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run %s: %w: %s", t.binary, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
