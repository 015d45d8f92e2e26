package mesh

import (
	"errors"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestReporterMirrorsToLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	rep := NewReporter(zap.New(core))

	rep.Info("Found mesh: quad")
	rep.Warn("Could not obtain UV data.", nil)
	rep.Error("Could not obtain position data.", ErrMissingPositionData)

	diags := rep.Messages()
	if len(diags) != 3 {
		t.Fatalf("got %d messages, want 3", len(diags))
	}
	if logs.Len() != 3 {
		t.Errorf("logged %d entries, want 3", logs.Len())
	}
	if got := logs.FilterMessage("Could not obtain position data.").Len(); got != 1 {
		t.Errorf("error entry logged %d times", got)
	}
	if !diags.HasErrors() {
		t.Error("HasErrors() = false")
	}
	if got := len(diags.Filter(SeverityWarning)); got != 1 {
		t.Errorf("Filter(Warning) = %d messages, want 1", got)
	}
}

func TestReporterNilLogger(t *testing.T) {
	rep := NewReporter(nil)
	rep.Warn("warning", nil)
	if len(rep.Messages()) != 1 {
		t.Error("message not recorded")
	}
}

func TestDiagnosticsErr(t *testing.T) {
	if err := (Diagnostics{{Severity: SeverityWarning, Text: "w"}}).Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}

	diags := Diagnostics{
		{Severity: SeverityError, Text: "no positions", Err: ErrMissingPositionData},
		{Severity: SeverityWarning, Text: "w"},
		{Severity: SeverityError, Text: "plain"},
	}
	err := diags.Err()
	if !errors.Is(err, ErrMissingPositionData) {
		t.Errorf("Err() = %v, want ErrMissingPositionData", err)
	}
	if got := len(multierr.Errors(err)); got != 2 {
		t.Errorf("Err() combined %d errors, want 2", got)
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeverityInfo, "Info"},
		{SeverityWarning, "Warning"},
		{SeverityError, "Error"},
		{Severity(9), "Unknown(9)"},
	}
	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
	if (Message{Severity: SeverityWarning, Text: "x"}).String() != "[Warning] x" {
		t.Error("Message.String() mismatch")
	}
}
