package diag

import (
	"strings"
	"testing"
)

func TestListOutcome(t *testing.T) {
	tests := []struct {
		name       string
		severities []Severity
		want       Outcome
	}{
		{"empty", nil, OutcomeOK},
		{"info_only", []Severity{SeverityInfo}, OutcomeOK},
		{"warns", []Severity{SeverityInfo, SeverityWarn}, OutcomeOK},
		{"errors", []Severity{SeverityWarn, SeverityError}, OutcomeDegraded},
		{"fatal", []Severity{SeverityError, SeverityFatal}, OutcomeFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewList()
			for _, s := range tt.severities {
				l.Addf(KindScent, s, "x")
			}
			if got := l.Outcome(); got != tt.want {
				t.Errorf("Outcome() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListKindQueries(t *testing.T) {
	l := NewList()
	l.Addf(KindBracketUnaligned, SeverityError, "one")
	l.Addf(KindBracketUnaligned, SeverityError, "two")
	l.Addf(KindTrapFailed, SeverityWarn, "three")

	if got := l.CountKind(KindBracketUnaligned); got != 2 {
		t.Errorf("CountKind = %d, want 2", got)
	}
	if !l.HasKind(KindTrapFailed) || l.HasKind(KindSnareTriggered) {
		t.Error("HasKind misreports")
	}
	if l.HasFatal() {
		t.Error("no fatal recorded")
	}
}

func TestDiagnosticString(t *testing.T) {
	l := NewList()
	l.AddSpan(KindMissingClose, SeverityError, At(3, 7), "missing ']'")
	l.AddComponent(KindSnareTriggered, SeverityFatal, "cand-0001", "boom")

	s0 := l.Entries()[0].String()
	if !strings.Contains(s0, "E_MISSING_CLOSE") || !strings.Contains(s0, "3:7") {
		t.Errorf("String() = %q", s0)
	}
	s1 := l.Entries()[1].String()
	if !strings.Contains(s1, "cand-0001") || !strings.Contains(s1, "fatal") {
		t.Errorf("String() = %q", s1)
	}
}

func TestAddFillsSeverityName(t *testing.T) {
	l := NewList()
	l.Add(Diagnostic{Kind: KindScent, Severity: SeverityWarn, Message: "m"})
	if l.Entries()[0].SeverityStr != "warn" {
		t.Errorf("SeverityStr = %q, want warn", l.Entries()[0].SeverityStr)
	}
}
