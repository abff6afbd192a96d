package desync

import (
	"context"
	"log/slog"
	"time"
)

// Record is one desync observation.
type Record struct {
	At      time.Time
	Session string
	Kind    Kind
	Detail  string
}

// Recorder persists desync records.
type Recorder interface {
	Record(Record)
}

// Reporter is the single sink for handler errors. Nothing it receives is fatal.
type Reporter struct {
	recorder Recorder
	session  func() string
}

type ReporterOpt func(*Reporter)

// WithRecorder persists resolution and duplicate-state errors.
func WithRecorder(r Recorder) ReporterOpt {
	return func(rep *Reporter) {
		rep.recorder = r
	}
}

// WithSession stamps records with the current session id.
func WithSession(fn func() string) ReporterOpt {
	return func(rep *Reporter) {
		rep.session = fn
	}
}

func NewReporter(opts ...ReporterOpt) *Reporter {
	r := &Reporter{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report logs err according to its kind and returns the kind.
func (r *Reporter) Report(ctx context.Context, event string, err error) Kind {
	kind := Classify(err)
	switch kind {
	case KindNone:
		return kind
	case KindNotConn:
		slog.DebugContext(ctx, "dropping outbound event", "event", event)
		return kind
	case KindResolution, KindDuplicate:
		slog.WarnContext(ctx, "desync", "event", event, "kind", kind, "error", err)
	default:
		slog.ErrorContext(ctx, "handling event", "event", event, "error", err)
	}

	if r == nil || r.recorder == nil {
		return kind
	}
	rec := Record{
		At:     time.Now(),
		Kind:   kind,
		Detail: event + ": " + err.Error(),
	}
	if r.session != nil {
		rec.Session = r.session()
	}
	r.recorder.Record(rec)
	return kind
}
