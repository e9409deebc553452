package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/go-pdf/fpdf"
)

func resetResolution() {
	resolution.Lock()
	resolution.done = false
	resolution.found = nil
	resolution.Unlock()
}

func touch(t *testing.T, path string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveSetRequiresNormalAndBold(t *testing.T) {
	dir := t.TempDir()

	sets := []CandidateSet{
		{
			Name:   "incomplete",
			Normal: touch(t, filepath.Join(dir, "only-regular.ttf")),
			Bold:   filepath.Join(dir, "missing-bold.ttf"),
		},
		{
			Name:   "usable",
			Normal: touch(t, filepath.Join(dir, "sans.ttf")),
			Bold:   touch(t, filepath.Join(dir, "sans-bold.ttf")),
			Italic: filepath.Join(dir, "missing-italic.ttf"),
		},
	}

	got := resolveSet(sets)
	if got == nil {
		t.Fatal("expected a resolved set")
	}
	if got.Name != "usable" {
		t.Errorf("expected set 'usable', got %q", got.Name)
	}
	if got.Italic != "" {
		t.Errorf("missing italic face should be cleared, got %q", got.Italic)
	}
}

func TestResolveSetProbesEverySupplied(t *testing.T) {
	if got := resolveSet(nil); got != nil {
		t.Fatalf("expected nil for empty candidate list, got %+v", got)
	}

	// Explicit candidate sets are resolved fresh on every call, so a
	// family installed after an earlier failed probe is still found.
	dir := t.TempDir()
	sets := []CandidateSet{{
		Name:   "late",
		Normal: touch(t, filepath.Join(dir, "a.ttf")),
		Bold:   touch(t, filepath.Join(dir, "b.ttf")),
	}}
	if got := resolveSet(sets); got == nil || got.Name != "late" {
		t.Errorf("expected set 'late' on a later probe, got %+v", got)
	}
}

func TestResolveDefaultCachesProbe(t *testing.T) {
	resetResolution()

	first := resolveDefault()
	second := resolveDefault()
	if (first == nil) != (second == nil) {
		t.Fatalf("cached probe diverged: %+v vs %+v", first, second)
	}
	if first != nil && second != first {
		t.Errorf("expected the cached set to be reused")
	}

	resolution.Lock()
	done := resolution.done
	resolution.Unlock()
	if !done {
		t.Error("default probe should be marked done after the first call")
	}
}

func TestCandidatesUnderRebasesPaths(t *testing.T) {
	sets := CandidatesUnder("/opt/fonts")
	if len(sets) == 0 {
		t.Fatal("expected candidate families")
	}
	for _, s := range sets {
		if !filepath.IsAbs(s.Normal) || filepath.Dir(filepath.Dir(s.Normal)) != "/opt/fonts" {
			t.Errorf("family %q not rooted under /opt/fonts: %q", s.Name, s.Normal)
		}
	}
}

func TestProvisionFallsBackToCoreFonts(t *testing.T) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	reg := Provision(pdf, []CandidateSet{{
		Name:   "absent",
		Normal: "/nonexistent/sans.ttf",
		Bold:   "/nonexistent/sans-bold.ttf",
	}}, nil)

	if reg.Unicode() {
		t.Error("expected core-font fallback")
	}
	if sel := reg.Select(Normal); sel.Family != "Helvetica" || sel.Style != "" || !sel.Core {
		t.Errorf("unexpected normal selection %+v", sel)
	}
	if sel := reg.Select(Bold); sel.Style != "B" {
		t.Errorf("unexpected bold selection %+v", sel)
	}
	if sel := reg.Select(Mono); sel.Family != "Courier" {
		t.Errorf("unexpected mono selection %+v", sel)
	}
	if pdf.Err() {
		t.Errorf("fallback must leave the document usable: %v", pdf.Error())
	}
}

func TestProvisionSurvivesBadFontFile(t *testing.T) {
	dir := t.TempDir()

	// Present on disk but not a valid TrueType file.
	pdf := fpdf.New("P", "pt", "Letter", "")
	reg := Provision(pdf, []CandidateSet{{
		Name:   "corrupt",
		Normal: touch(t, filepath.Join(dir, "sans.ttf")),
		Bold:   touch(t, filepath.Join(dir, "sans-bold.ttf")),
	}}, nil)

	if reg.Unicode() {
		t.Error("corrupt fonts must not register as unicode")
	}
	if pdf.Err() {
		t.Errorf("registration failure must be cleared: %v", pdf.Error())
	}
}

func TestPreparePassesASCIIThrough(t *testing.T) {
	resetResolution()

	pdf := fpdf.New("P", "pt", "Letter", "")
	reg := Provision(pdf, nil, nil)

	const s = "plain ASCII text 123"
	if got := reg.Prepare(Normal, s); got != s {
		t.Errorf("expected ASCII unchanged, got %q", got)
	}
}
