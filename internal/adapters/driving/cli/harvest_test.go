package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports/driving"
)

// mockHarvestOrchestrator implements driving.HarvestOrchestrator for testing.
type mockHarvestOrchestrator struct {
	report   *domain.Report
	err      error
	gotInput domain.HarvestInput
}

func (m *mockHarvestOrchestrator) Harvest(_ context.Context, in domain.HarvestInput) (*domain.Report, error) {
	m.gotInput = in
	return m.report, m.err
}

func (m *mockHarvestOrchestrator) Status(_ context.Context, _ string) (*driving.HarvestStatus, error) {
	return nil, nil
}

func setupHarvestTest(mock *mockHarvestOrchestrator) func() {
	oldOrch := harvestOrchestrator
	oldToken := token
	harvestOrchestrator = mock
	return func() {
		harvestOrchestrator = oldOrch
		token = oldToken
		harvestFilter = ""
		harvestLinks = false
		harvestFlat = false
		harvestResume = true
		harvestOut = ""
	}
}

func TestHarvestCmd_Use(t *testing.T) {
	assert.Equal(t, "harvest [project-id]", harvestCmd.Use)
}

func TestHarvestCmd_Short(t *testing.T) {
	assert.Equal(t, "Harvest comments and annotations from a project", harvestCmd.Short)
}

func TestHarvestCmd_Executes(t *testing.T) {
	mock := &mockHarvestOrchestrator{report: &domain.Report{ProjectID: "proj-1"}}
	cleanup := setupHarvestTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"harvest", "proj-1", "--token", "tok-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Harvesting project: proj-1")
	assert.Contains(t, buf.String(), `"project_id": "proj-1"`)
	assert.Equal(t, "tok-1", mock.gotInput.Token)
	assert.Equal(t, "proj-1", mock.gotInput.ProjectID)
	assert.True(t, mock.gotInput.Grouped)
}

func TestHarvestCmd_FlatFlag(t *testing.T) {
	mock := &mockHarvestOrchestrator{report: &domain.Report{ProjectID: "proj-1"}}
	cleanup := setupHarvestTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"harvest", "proj-1", "--token", "tok-1", "--flat"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.False(t, mock.gotInput.Grouped)
}

func TestHarvestCmd_FilterAndLinkFlags(t *testing.T) {
	mock := &mockHarvestOrchestrator{report: &domain.Report{ProjectID: "proj-1"}}
	cleanup := setupHarvestTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{
		"harvest", "proj-1",
		"--token", "tok-1",
		"--filter", "final, v2",
		"--include-review-links",
	})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.True(t, mock.gotInput.IncludeReviewLinks)
	assert.True(t, mock.gotInput.Filter.Matches("Final cut v2"))
	assert.False(t, mock.gotInput.Filter.Matches("Final cut"))
}

func TestHarvestCmd_WritesReportFile(t *testing.T) {
	mock := &mockHarvestOrchestrator{report: &domain.Report{ProjectID: "proj-1"}}
	cleanup := setupHarvestTest(mock)
	defer cleanup()

	outPath := filepath.Join(t.TempDir(), "report.json")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"harvest", "proj-1", "--token", "tok-1", "--out", outPath})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Report written to "+outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"project_id": "proj-1"`)
}

func TestHarvestCmd_MissingToken(t *testing.T) {
	mock := &mockHarvestOrchestrator{report: &domain.Report{}}
	cleanup := setupHarvestTest(mock)
	defer cleanup()

	token = ""
	t.Setenv("REELNOTES_TOKEN", "")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"harvest", "proj-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no token provided")
}

func TestHarvestCmd_TokenFromEnvironment(t *testing.T) {
	mock := &mockHarvestOrchestrator{report: &domain.Report{ProjectID: "proj-1"}}
	cleanup := setupHarvestTest(mock)
	defer cleanup()

	token = ""
	t.Setenv("REELNOTES_TOKEN", "env-tok")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"harvest", "proj-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, "env-tok", mock.gotInput.Token)
}

func TestHarvestCmd_ServiceNotConfigured(t *testing.T) {
	oldOrch := harvestOrchestrator
	harvestOrchestrator = nil
	defer func() {
		harvestOrchestrator = oldOrch
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"harvest", "proj-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "harvest service not configured")
}

func TestHarvestCmd_ServiceError(t *testing.T) {
	mock := &mockHarvestOrchestrator{err: errors.New("root folder lookup failed")}
	cleanup := setupHarvestTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"harvest", "proj-1", "--token", "tok-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "harvest failed")
}
