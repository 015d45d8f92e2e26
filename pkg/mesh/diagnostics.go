package mesh

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Assembly errors.
var (
	ErrMissingPositionData = errors.New("mesh has no position data")
	ErrNoTriangles         = errors.New("mesh has no triangles")
	ErrNoGeometry          = errors.New("mesh has no geometry")
	ErrNoMeshes            = errors.New("no meshes to import")
)

// Severity grades a diagnostic message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Message is one diagnostic produced during an import.
type Message struct {
	Severity Severity `yaml:"severity"`
	Text     string   `yaml:"text"`
	Err      error    `yaml:"-"`
}

// String formats the message for display.
func (m Message) String() string {
	return fmt.Sprintf("[%s] %s", m.Severity, m.Text)
}

// Diagnostics is the ordered list of messages of an import.
type Diagnostics []Message

// HasErrors reports whether any message has Error severity.
func (d Diagnostics) HasErrors() bool {
	for _, m := range d {
		if m.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Filter returns the messages of the given severity.
func (d Diagnostics) Filter(sev Severity) Diagnostics {
	var out Diagnostics
	for _, m := range d {
		if m.Severity == sev {
			out = append(out, m)
		}
	}
	return out
}

// Err combines the Error-severity messages into a single error, or returns
// nil if there are none.
func (d Diagnostics) Err() error {
	var err error
	for _, m := range d {
		if m.Severity != SeverityError {
			continue
		}
		cause := m.Err
		if cause == nil {
			cause = errors.New(m.Text)
		} else {
			cause = fmt.Errorf("%s: %w", m.Text, cause)
		}
		err = multierr.Append(err, cause)
	}
	return err
}

// Reporter collects diagnostics and mirrors each one to a logger.
type Reporter struct {
	log  *zap.Logger
	msgs Diagnostics
}

// NewReporter returns a reporter logging to log. A nil logger discards log
// output.
func NewReporter(log *zap.Logger) *Reporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reporter{log: log}
}

// Info records an informational message.
func (r *Reporter) Info(text string, fields ...zap.Field) {
	r.msgs = append(r.msgs, Message{Severity: SeverityInfo, Text: text})
	r.log.Info(text, fields...)
}

// Warn records a recoverable problem.
func (r *Reporter) Warn(text string, err error, fields ...zap.Field) {
	r.msgs = append(r.msgs, Message{Severity: SeverityWarning, Text: text, Err: err})
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	r.log.Warn(text, fields...)
}

// Error records a failure.
func (r *Reporter) Error(text string, err error, fields ...zap.Field) {
	r.msgs = append(r.msgs, Message{Severity: SeverityError, Text: text, Err: err})
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	r.log.Error(text, fields...)
}

// Messages returns the collected diagnostics.
func (r *Reporter) Messages() Diagnostics {
	return r.msgs
}

// Extend appends messages that were already logged elsewhere.
func (r *Reporter) Extend(d Diagnostics) {
	r.msgs = append(r.msgs, d...)
}
