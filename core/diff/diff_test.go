package diff

import (
	"fmt"
	"strings"
	"testing"
)

func TestLinesMarksReplacedLine(t *testing.T) {
	lines := Lines("a\nb\nc\n", "a\nB\nc\n")

	var added, removed []string
	for _, l := range lines {
		switch l.Type {
		case LineAdded:
			added = append(added, l.Content)
		case LineRemoved:
			removed = append(removed, l.Content)
		}
	}
	if len(added) != 1 || added[0] != "B" {
		t.Errorf("expected added [B], got %v", added)
	}
	if len(removed) != 1 || removed[0] != "b" {
		t.Errorf("expected removed [b], got %v", removed)
	}
}

func TestRenderCollapsesUnchangedLines(t *testing.T) {
	old := "l1\nl2\nl3\nimport x.User;\nl5\nl6\nl7\n"
	updated := "l1\nl2\nl3\n// import x.User;\nl5\nl6\nl7\n"

	out := Render("model/Job.java", old, updated)

	if !strings.HasPrefix(out, "--- a/model/Job.java\n+++ b/model/Job.java\n@@\n") {
		t.Errorf("unexpected header:\n%s", out)
	}
	for _, want := range []string{" l3\n", "-import x.User;\n", "+// import x.User;\n", " l5\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "l1") || strings.Contains(out, "l7") {
		t.Errorf("context beyond one line should be collapsed:\n%s", out)
	}
}

func TestRenderIdenticalHasNoChanges(t *testing.T) {
	out := Render("f", "same\n", "same\n")
	if out != "--- a/f\n+++ b/f\n" {
		t.Errorf("expected header only, got:\n%s", out)
	}
}

func TestLinesOnLongFileKeepsLineIdentity(t *testing.T) {
	var oldLines, newLines []string
	for i := 1; i <= 30; i++ {
		line := fmt.Sprintf("    private String field%02d;", i)
		oldLines = append(oldLines, line)
		switch i {
		case 12:
			newLines = append(newLines, "    private UUID recruiterId;")
		case 21:
		default:
			newLines = append(newLines, line)
		}
	}
	old := strings.Join(oldLines, "\n") + "\n"
	updated := strings.Join(newLines, "\n") + "\n"

	var added, removed []string
	context := 0
	for _, l := range Lines(old, updated) {
		switch l.Type {
		case LineAdded:
			added = append(added, l.Content)
		case LineRemoved:
			removed = append(removed, l.Content)
		default:
			context++
		}
	}

	wantRemoved := []string{"    private String field12;", "    private String field21;"}
	if strings.Join(removed, "|") != strings.Join(wantRemoved, "|") {
		t.Errorf("expected removed %q, got %q", wantRemoved, removed)
	}
	if len(added) != 1 || added[0] != "    private UUID recruiterId;" {
		t.Errorf("expected added [recruiterId], got %q", added)
	}
	if context != 28 {
		t.Errorf("expected 28 context lines, got %d", context)
	}

	out := Render("model/Job.java", old, updated)
	for _, want := range []string{
		" " + oldLines[10] + "\n-" + oldLines[11] + "\n+    private UUID recruiterId;\n " + oldLines[12] + "\n",
		" " + oldLines[19] + "\n-" + oldLines[20] + "\n " + oldLines[21] + "\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "-"+oldLines[0]) {
		t.Errorf("unchanged first line reported as removed:\n%s", out)
	}
}

func TestLinesWithoutTrailingNewline(t *testing.T) {
	lines := Lines("a\nb", "a\nc")
	if len(lines) != 3 || lines[0].Content != "a" || lines[0].Type != LineContext {
		t.Fatalf("unexpected lines %+v", lines)
	}
}
