package logx

import (
	"time"

	"go.uber.org/zap"
)

type Timer struct {
	start time.Time
	comp  string
	op    string
}

func Start(comp, op string) *Timer {
	return &Timer{
		start: time.Now(),
		comp:  comp,
		op:    op,
	}
}

// Elapsed returns the time since Start.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// End logs the elapsed time at debug level and returns it.
func (t *Timer) End() time.Duration {
	elapsed := t.Elapsed()
	L().Debug("timing",
		zap.String("component", t.comp),
		zap.String("op", t.op),
		zap.Duration("elapsed", elapsed),
	)
	return elapsed
}
