package shared

import "testing"

func TestToTitle(t *testing.T) {
	if got := ToTitle("job-service"); got != "Job-service" {
		t.Errorf("ToTitle = %q", got)
	}
	if got := ToTitle(""); got != "" {
		t.Errorf("ToTitle(\"\") = %q", got)
	}
}

func TestIndentSkipsBlankLines(t *testing.T) {
	if got := Indent("  ", "a\n\nb"); got != "  a\n\n  b" {
		t.Errorf("Indent = %q", got)
	}
}

func TestPlural(t *testing.T) {
	if Plural(1, "rule") != "rule" || Plural(0, "rule") != "rules" || Plural(2, "file") != "files" {
		t.Error("unexpected plural forms")
	}
}
