package locale

import (
	"context"
	"strings"
	"testing"

	"claimrelay/internal/types"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, args ...any)  {}
func (nopLogger) Error(msg string, args ...any) {}
func (nopLogger) Warn(msg string, args ...any)  {}
func (l nopLogger) With(args ...any) types.Logger { return l }

func newTestCatalog(t *testing.T, resellerLocales map[int64]string) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(CatalogConfig{
		ResellerLocales: resellerLocales,
		Logger:          nopLogger{},
	})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return catalog
}

func TestCatalog_RenderWithParams(t *testing.T) {
	catalog := newTestCatalog(t, nil)

	out, err := catalog.Render(context.Background(), "diff.status_changed",
		map[string]string{"FROM": "Completed", "TO": "Pending"}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Status changed from Completed to Pending" {
		t.Errorf("got %q", out)
	}
}

func TestCatalog_ResellerLocaleSelected(t *testing.T) {
	catalog := newTestCatalog(t, map[int64]string{10: "de"})

	out, err := catalog.Render(context.Background(), "diff.new_position", nil, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Rueckgabeposition") {
		t.Errorf("expected german phrase, got %q", out)
	}
}

func TestCatalog_MissingPhraseFallsBackToDefaultLocale(t *testing.T) {
	// The built-in "de" set has no email.body; the english one must be used.
	catalog := newTestCatalog(t, map[int64]string{10: "de"})

	out, err := catalog.Render(context.Background(), "email.body",
		map[string]string{"COMPLAINT_NUMBER": "RC-1"}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Complaint RC-1") {
		t.Errorf("expected english fallback, got %q", out)
	}
}

func TestCatalog_UnmappedResellerUsesDefaultLocale(t *testing.T) {
	catalog := newTestCatalog(t, map[int64]string{10: "de"})

	out, err := catalog.Render(context.Background(), "diff.new_position", nil, 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "A new return position was added to the complaint" {
		t.Errorf("got %q", out)
	}
}

func TestCatalog_UnknownPhraseIsAnError(t *testing.T) {
	catalog := newTestCatalog(t, nil)

	if _, err := catalog.Render(context.Background(), "no.such.phrase", nil, 10); err == nil {
		t.Error("expected error for unknown phrase")
	}
}

func TestCatalog_MissingParamRendersEmpty(t *testing.T) {
	// missingkey=zero: absent params render as empty strings, not errors.
	catalog := newTestCatalog(t, nil)

	out, err := catalog.Render(context.Background(), "email.subject", nil, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Goods return complaint " {
		t.Errorf("got %q", out)
	}
}

func TestNewCatalog_RequiresDefaultLocale(t *testing.T) {
	_, err := NewCatalog(CatalogConfig{
		Phrases: map[string]map[string]string{"de": {"k": "v"}},
		Logger:  nopLogger{},
	})
	if err == nil {
		t.Error("expected error for catalog without default locale")
	}
}

func TestStatusTable_KnownAndUnknownCodes(t *testing.T) {
	table := NewStatusTable()

	cases := map[int64]string{
		0:  "Completed",
		1:  "Pending",
		2:  "In review",
		3:  "Accepted",
		4:  "Rejected",
		99: StatusUnknownName,
		-1: StatusUnknownName,
	}
	for code, want := range cases {
		if got := table.StatusName(code); got != want {
			t.Errorf("status %d: expected %q, got %q", code, want, got)
		}
	}
}
