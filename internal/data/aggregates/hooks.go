package aggregates

import (
	"strings"
	"time"

	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
)

// Hooks receives one signal per unit-of-work operation.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}

// NoopHooks discards every signal.
func NoopHooks() Hooks { return noopHooks{} }

// Observe reports the outcome of op, started at start, to hooks.
func Observe(h Hooks, op string, start time.Time, err error) {
	if h == nil {
		return
	}
	op = strings.TrimSpace(op)
	status := "success"
	if err != nil {
		status = string(apierr.KindOf(err))
		if apierr.IsKind(err, apierr.KindStoreConflict) {
			h.IncConflict(op)
		}
	}
	h.ObserveOperation(op, status, time.Since(start))
}
