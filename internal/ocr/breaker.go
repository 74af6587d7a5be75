package ocr

import (
	"context"
	"errors"
	"time"

	"tgm_calc/internal/logger"

	"github.com/sony/gobreaker"
)

// BreakerRecognizer fails fast once the wrapped engine keeps erroring, so
// a missing tesseract install does not cost a timeout per upload.
type BreakerRecognizer struct {
	next Recognizer
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerRecognizer(next Recognizer, log *logger.Logger) *BreakerRecognizer {
	st := gobreaker.Settings{
		Name:        "OCRCircuitBreaker",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		// a cancelled request says nothing about the engine
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	if log != nil {
		st.OnStateChange = func(name string, from, to gobreaker.State) {
			log.Warnw("ocr_breaker_state_changed", "breaker", name, "from", from.String(), "to", to.String())
		}
	}
	return &BreakerRecognizer{next: next, cb: gobreaker.NewCircuitBreaker(st)}
}

func (b *BreakerRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		text, err := b.next.Recognize(ctx, image)
		if err != nil {
			return nil, err
		}
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (b *BreakerRecognizer) State() gobreaker.State {
	return b.cb.State()
}
