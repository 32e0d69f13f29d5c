package diag

import (
	"errors"
	"strings"
	"testing"
)

type showerError struct{}

func (showerError) Error() string { return "error" }

func (showerError) Show(_ string) string { return "show" }

func TestShowError_Shower(t *testing.T) {
	var sb strings.Builder
	ShowError(&sb, showerError{})
	if got := sb.String(); got != "show\n" {
		t.Errorf("ShowError wrote %q, want %q", got, "show\n")
	}
}

func TestShowError_PlainError(t *testing.T) {
	setMessageMarkers(t, "{", "}")
	var sb strings.Builder
	ShowError(&sb, errors.New("error"))
	if got := sb.String(); got != "{error}\n" {
		t.Errorf("ShowError wrote %q, want %q", got, "{error}\n")
	}
}

func TestUseColor(t *testing.T) {
	setCulpritMarkers(t, "<", ">")
	setMessageMarkers(t, "{", "}")

	UseColor(false)
	var sb strings.Builder
	Complainf(&sb, "%d errors", 2)
	if got := sb.String(); got != "2 errors\n" {
		t.Errorf("Complainf wrote %q, want %q", got, "2 errors\n")
	}
	if culpritLineBegin != "" || culpritLineEnd != "" {
		t.Errorf("culprit markers not cleared")
	}

	UseColor(true)
	if messageStart != "\033[31;1m" {
		t.Errorf("message marker not restored, got %q", messageStart)
	}
}
