package rewrite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thingc24/carve/core/models"
	"go.uber.org/goleak"
)

const jobSource = `package vn.careermate.jobservice.model;

import jakarta.persistence.*;
import vn.careermate.userservice.model.RecruiterProfile;
import vn.careermate.contentservice.model.Company;

import java.util.UUID;

@Entity
public class Job {

    @Id
    @GeneratedValue(strategy = GenerationType.UUID)
    private UUID id;

    @ManyToOne(fetch = FetchType.LAZY)
    @JoinColumn(name = "recruiter_id", nullable = false)
    @JsonIgnore
    private RecruiterProfile recruiter;

    @ManyToOne(fetch = FetchType.EAGER)
    @JoinColumn(name = "company_id", nullable = false)
    private Company company;

    @Column(nullable = false)
    private String title;
}
`

func jobRules() []models.RewriteRule {
	return []models.RewriteRule{
		ImportRemoval("vn.careermate.userservice.model.RecruiterProfile"),
		ImportRemoval("vn.careermate.contentservice.model.Company"),
		FieldReplacement(FieldRef{Fetch: "LAZY", Column: "recruiter_id", JSONIgnore: true, Type: "RecruiterProfile", Name: "recruiter"}),
		FieldReplacement(FieldRef{Fetch: "EAGER", Column: "company_id", Type: "Company", Name: "company"}),
	}
}

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRewriteCommentsOutImport(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "model/Job.java", jobSource)

	plan := models.RewritePlan{Entries: []models.PlanEntry{{Target: "model/Job.java", Rules: jobRules()}}}
	report := NewEngine(root).Rewrite(plan, map[string]bool{"model/Job.java": true})

	got := readFile(t, path)
	assert.NotContains(t, got, "\nimport vn.careermate.userservice.model.RecruiterProfile;")
	assert.Contains(t, got, "// import vn.careermate.userservice.model.RecruiterProfile; // Replaced with UUID")
	assert.Contains(t, got, "    @Column(name = \"recruiter_id\", nullable = false)\n    private UUID recruiterId;\n")
	assert.Contains(t, got, "    @Column(name = \"company_id\", nullable = false)\n    private UUID companyId;\n")
	assert.Contains(t, got, "    @Column(nullable = false)\n    private String title;\n")

	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, 4, report.Outcomes[0].RulesApplied)
	assert.True(t, report.Outcomes[0].Changed)
	assert.Equal(t, 1, report.Refactored)
	assert.Empty(t, report.Unfired)
}

func TestRewriteSkipsFilesThatWereNotCopied(t *testing.T) {
	root := t.TempDir()
	// A stale file on disk must not be touched when the copy phase skipped it.
	path := writeFile(t, root, "model/Application.java", "import vn.careermate.userservice.model.CV;\n")

	plan := models.RewritePlan{Entries: []models.PlanEntry{{
		Target: "model/Application.java",
		Rules:  []models.RewriteRule{ImportRemoval("vn.careermate.userservice.model.CV")},
	}}}
	report := NewEngine(root).Rewrite(plan, map[string]bool{})

	assert.Equal(t, "import vn.careermate.userservice.model.CV;\n", readFile(t, path))
	require.Len(t, report.Outcomes, 1)
	assert.True(t, report.Outcomes[0].Skipped)
	assert.False(t, report.Outcomes[0].Changed)
	assert.Equal(t, 1, report.NotFound)
	assert.Equal(t, 0, report.Refactored)
}

func TestRewriteRequiresExactWhitespace(t *testing.T) {
	root := t.TempDir()
	exact := "class A {\n    @ManyToOne(fetch = FetchType.EAGER)\n    @JoinColumn(name = \"cv_id\")\n    private CV cv;\n}\n"
	// Tab indentation instead of four spaces.
	loose := "class B {\n\t@ManyToOne(fetch = FetchType.EAGER)\n\t@JoinColumn(name = \"cv_id\")\n\tprivate CV cv;\n}\n"
	exactPath := writeFile(t, root, "model/A.java", exact)
	loosePath := writeFile(t, root, "model/B.java", loose)

	rule := FieldReplacement(FieldRef{Fetch: "EAGER", Column: "cv_id", Nullable: true, Type: "CV", Name: "cv"})
	plan := models.RewritePlan{Entries: []models.PlanEntry{
		{Target: "model/A.java", Rules: []models.RewriteRule{rule}},
		{Target: "model/B.java", Rules: []models.RewriteRule{rule}},
	}}
	report := NewEngine(root).Rewrite(plan, map[string]bool{"model/A.java": true, "model/B.java": true})

	assert.Equal(t, "class A {\n    @Column(name = \"cv_id\")\n    private UUID cvId;\n}\n", readFile(t, exactPath))
	assert.Equal(t, loose, readFile(t, loosePath))
	assert.True(t, report.Outcomes[0].Changed)
	assert.False(t, report.Outcomes[1].Changed)
	require.Len(t, report.Unfired, 1)
	assert.Equal(t, "model/B.java", report.Unfired[0].Target)
}

func TestRewriteIsIdempotent(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "model/Job.java", jobSource)
	plan := models.RewritePlan{Entries: []models.PlanEntry{{Target: "model/Job.java", Rules: jobRules()}}}
	copied := map[string]bool{"model/Job.java": true}

	NewEngine(root).Rewrite(plan, copied)
	first := readFile(t, path)

	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, old, old))

	second := NewEngine(root).Rewrite(plan, copied)
	assert.Equal(t, first, readFile(t, path))
	assert.False(t, second.Outcomes[0].Changed)
	assert.Equal(t, 0, second.Outcomes[0].RulesApplied)
	assert.Equal(t, 1, second.Unchanged)
	// Already-applied rules are not drift.
	assert.Empty(t, second.Unfired)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "unchanged file must not be rewritten")
}

func TestRewriteReportsUnfiredDeletion(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "model/Job.java", "class Job {\n    private String title;\n}\n")
	plan := models.RewritePlan{Entries: []models.PlanEntry{{
		Target: "model/Job.java",
		Rules:  []models.RewriteRule{Literal("    @JsonIgnore\n", "")},
	}}}

	report := NewEngine(root).Rewrite(plan, map[string]bool{"model/Job.java": true})

	assert.False(t, report.Outcomes[0].Changed)
	require.Len(t, report.Unfired, 1)
	assert.Equal(t, 0, report.Unfired[0].Index)
}

func TestRewriteFailureDoesNotStopOtherFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "model", "Broken.java"), 0755))
	path := writeFile(t, root, "model/Job.java", jobSource)

	plan := models.RewritePlan{Entries: []models.PlanEntry{
		{Target: "model/Broken.java", Rules: jobRules()},
		{Target: "model/Job.java", Rules: jobRules()},
	}}
	report := NewEngine(root).Rewrite(plan, map[string]bool{"model/Broken.java": true, "model/Job.java": true})

	assert.Error(t, report.Outcomes[0].Err)
	assert.True(t, report.Outcomes[1].Changed)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Refactored)
	assert.False(t, report.Success())
	assert.Contains(t, readFile(t, path), "private UUID recruiterId;")
}

func TestRewriteDryRunDoesNotWrite(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "model/Job.java", jobSource)
	plan := models.RewritePlan{Entries: []models.PlanEntry{{Target: "model/Job.java", Rules: jobRules()}}}

	report := NewEngine(root, WithDryRun(true)).Rewrite(plan, map[string]bool{"model/Job.java": true})

	assert.Equal(t, jobSource, readFile(t, path))
	assert.True(t, report.DryRun)
	assert.True(t, report.Outcomes[0].Changed)
	assert.Contains(t, report.Outcomes[0].Diff, "-    private RecruiterProfile recruiter;")
	assert.Contains(t, report.Outcomes[0].Diff, "+    private UUID recruiterId;")
}

func TestRewriteWithWorkersKeepsPlanOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	copied := make(map[string]bool)
	var entries []models.PlanEntry
	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		rel := "model/" + name + ".java"
		writeFile(t, root, rel, "import vn.careermate.userservice.model.User;\nclass "+name+" {}\n")
		copied[rel] = true
		entries = append(entries, models.PlanEntry{
			Target: rel,
			Rules:  []models.RewriteRule{ImportRemoval("vn.careermate.userservice.model.User")},
		})
	}

	report := NewEngine(root, WithWorkers(3)).Rewrite(models.RewritePlan{Entries: entries}, copied)

	require.Len(t, report.Outcomes, len(entries))
	for i, o := range report.Outcomes {
		assert.Equal(t, entries[i].Target, o.Target)
		assert.True(t, o.Changed)
		got := readFile(t, filepath.Join(root, filepath.FromSlash(o.Target)))
		assert.True(t, strings.HasPrefix(got, "// import vn.careermate.userservice.model.User;"))
	}
	assert.Equal(t, len(entries), report.Refactored)
}
