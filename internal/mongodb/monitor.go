package mongodb

import (
	"sync/atomic"

	"go.mongodb.org/mongo-driver/event"
)

const defaultReporterBuffer = 16

/*
ErrorReporter collects connection errors raised by the driver outside of any
request and exposes them as a channel.

Report never blocks: when the buffer is full the error is counted as dropped.
The channel is never closed, consumers stop on their own context.
*/
type ErrorReporter struct {
	errs    chan error
	dropped atomic.Int64
}

func NewErrorReporter(buffer int) *ErrorReporter {
	if buffer <= 0 {
		buffer = defaultReporterBuffer
	}
	return &ErrorReporter{errs: make(chan error, buffer)}
}

func (r *ErrorReporter) Report(err error) {
	if r == nil || err == nil {
		return
	}
	select {
	case r.errs <- err:
	default:
		r.dropped.Add(1)
	}
}

func (r *ErrorReporter) Errors() <-chan error {
	return r.errs
}

// Dropped returns how many errors were discarded because nobody was reading.
func (r *ErrorReporter) Dropped() int64 {
	return r.dropped.Load()
}

// ServerMonitor forwards failed heartbeats to the reporter.
func (r *ErrorReporter) ServerMonitor() *event.ServerMonitor {
	return &event.ServerMonitor{
		ServerHeartbeatFailed: func(e *event.ServerHeartbeatFailedEvent) {
			r.Report(e.Failure)
		},
	}
}
