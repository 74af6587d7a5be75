// Package ocr turns game screenshots into troop counts and enforcer names.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// ErrNoData is returned by Parse when the text holds none of the known fields.
	ErrNoData        = errors.New("no troop or enforcer data found")
	ErrUnknownEngine = errors.New("unknown ocr engine")
)

// Recognizer extracts raw text from an encoded image.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

type Config struct {
	Engine   string        `mapstructure:"engine"`
	Binary   string        `mapstructure:"binary"`
	Language string        `mapstructure:"language"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type Factory func(cfg Config) (Recognizer, error)

var (
	enginesMu sync.RWMutex
	engines   = map[string]Factory{}
)

// Register makes an engine available to New. Engines register themselves
// from init, some only under a build tag.
func Register(name string, f Factory) {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	engines[name] = f
}

// Engines lists the registered engine names.
func Engines() []string {
	enginesMu.RLock()
	defer enginesMu.RUnlock()
	out := make([]string, 0, len(engines))
	for name := range engines {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func New(cfg Config) (Recognizer, error) {
	enginesMu.RLock()
	f, ok := engines[cfg.Engine]
	enginesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%q (have %s): %w", cfg.Engine, strings.Join(Engines(), ", "), ErrUnknownEngine)
	}
	return f(cfg)
}

// Extracted holds the fields found in a screenshot. Nil counts were not found.
type Extracted struct {
	Bruisers  *int     `json:"bruisers,omitempty"`
	Hitmen    *int     `json:"hitmen,omitempty"`
	Bikers    *int     `json:"bikers,omitempty"`
	Enforcers []string `json:"enforcers,omitempty"`
}

// Troops returns the found counts keyed by lowercase troop name.
func (e Extracted) Troops() map[string]int {
	out := make(map[string]int, 3)
	for key, v := range map[string]*int{"bruisers": e.Bruisers, "hitmen": e.Hitmen, "bikers": e.Bikers} {
		if v != nil {
			out[key] = *v
		}
	}
	return out
}

var (
	bruisersRe  = regexp.MustCompile(`(?i)bruisers:\s*(\d+)`)
	hitmenRe    = regexp.MustCompile(`(?i)hitmen:\s*(\d+)`)
	bikersRe    = regexp.MustCompile(`(?i)bikers:\s*(\d+)`)
	enforcersRe = regexp.MustCompile(`(?i)enforcers:\s*([^\r\n]+)`)
)

// Parse scans OCR text for "Bruisers: N", "Hitmen: N", "Bikers: N" and
// "Enforcers: a, b, c".
func Parse(text string) (Extracted, error) {
	var out Extracted
	out.Bruisers = matchInt(bruisersRe, text)
	out.Hitmen = matchInt(hitmenRe, text)
	out.Bikers = matchInt(bikersRe, text)

	if m := enforcersRe.FindStringSubmatch(text); m != nil {
		for _, name := range strings.Split(m[1], ",") {
			if name = strings.TrimSpace(name); name != "" {
				out.Enforcers = append(out.Enforcers, name)
			}
		}
	}

	if out.Bruisers == nil && out.Hitmen == nil && out.Bikers == nil && len(out.Enforcers) == 0 {
		return Extracted{}, ErrNoData
	}
	return out, nil
}

func matchInt(re *regexp.Regexp, text string) *int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}
