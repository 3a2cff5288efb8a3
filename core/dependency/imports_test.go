package dependency

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thingc24/carve/core/models"
)

const application = `package vn.careermate.jobservice.model;

import jakarta.persistence.*;
import java.util.UUID;
import lombok.Data;
import vn.careermate.jobservice.model.Job;
// import vn.careermate.userservice.model.StudentProfile; // Replaced with UUID
import vn.careermate.userservice.model.CV;
import static vn.careermate.common.Constants.MAX;

@Entity
public class Application {}
`

func TestAnalyzeClassifiesImports(t *testing.T) {
	got := Analyze(application, "vn.careermate")

	want := models.DependencyAnalysis{
		StandardLibImports: []string{"jakarta.persistence.*", "java.util.UUID"},
		ExternalImports:    []string{"lombok.Data"},
		LocalImports: []models.LocalDependency{
			{ImportPath: "vn.careermate.jobservice.model.Job", Line: 6},
			{ImportPath: "vn.careermate.userservice.model.CV", Line: 8},
			{ImportPath: "vn.careermate.common.Constants.MAX", Line: 9, Static: true},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("analysis mismatch (-want +got):\n%s", diff)
	}
}

func TestForeignHonoursOwnedPackages(t *testing.T) {
	analysis := Analyze(application, "vn.careermate")

	foreign := Foreign(analysis, []string{"vn.careermate.jobservice", "vn.careermate.common"})
	require.Len(t, foreign, 1)
	assert.Equal(t, "vn.careermate.userservice.model.CV", foreign[0].ImportPath)

	// A package prefix must end on a segment boundary.
	foreign = Foreign(analysis, []string{"vn.careermate.job"})
	assert.Len(t, foreign, 3)
}

func TestScanSkipsMissingFiles(t *testing.T) {
	dest := t.TempDir()
	path := filepath.Join(dest, "jobservice", "model", "Application.java")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(application), 0644))

	s := NewScanner(dest, "vn.careermate", []string{"vn.careermate.jobservice"})
	require.True(t, s.Enabled())

	found, err := s.Scan([]string{"jobservice/model/Application.java", "jobservice/model/Gone.java"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "jobservice/model/Application.java:8 vn.careermate.userservice.model.CV", found[0].String())
	assert.Equal(t, "vn.careermate.common.Constants.MAX", found[1].ImportPath)
}

func TestScannerDisabledWithoutPackages(t *testing.T) {
	assert.False(t, NewScanner(t.TempDir(), "", []string{"a"}).Enabled())
	assert.False(t, NewScanner(t.TempDir(), "vn.careermate", nil).Enabled())
}
