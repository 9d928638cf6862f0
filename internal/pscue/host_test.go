package pscue_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscue/pscue/internal/catalogue"
	"github.com/pscue/pscue/internal/config"
	"github.com/pscue/pscue/internal/pscue"
)

func newHost(t *testing.T) *pscue.Host {
	t.Helper()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "learned-data.sqlite")
	cat := catalogue.Builtin(catalogue.DynamicProducers{})
	cfg := config.Default()

	h, err := pscue.Open(ctx, path, cat, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close(ctx) })
	return h
}

func TestHost_RecordExecutionUpdatesKnowledgeAndWorkflow(t *testing.T) {
	t.Parallel()

	h := newHost(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	h.RecordExecution(ctx, "git add .", []string{"."}, "/repo", 0, now)
	h.RecordExecution(ctx, "git commit -m msg", []string{"-m", "msg"}, "/repo", 0, now.Add(10*time.Second))

	ks, ws := h.View()
	require.Len(t, ks.Commands, 2)
	require.Len(t, ws.Transitions, 1)
	assert.Equal(t, "git add", ws.Transitions[0].From)
	assert.Equal(t, "git commit", ws.Transitions[0].To)

	hist := h.QueryHistory(10)
	require.Len(t, hist, 2)
	assert.Equal(t, "git commit", hist[0].CommandKey, "QueryHistory returns newest first")
}

func TestHost_FailedCommandOnlyUpdatesHistory(t *testing.T) {
	t.Parallel()

	h := newHost(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	h.RecordExecution(ctx, "git push", []string{}, "/repo", 1, now)

	ks, ws := h.View()
	assert.Empty(t, ks.Commands)
	assert.Empty(t, ws.Transitions)

	hist := h.QueryHistory(10)
	require.Len(t, hist, 1)
	assert.Equal(t, 1, hist[0].ExitStatus)
}

func TestHost_DisableLearningSuppressesFeedback(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "learned-data.sqlite")
	cat := catalogue.Builtin(catalogue.DynamicProducers{})
	cfg := config.Default()
	cfg.DisableLearning = true

	h, err := pscue.Open(ctx, path, cat, cfg, nil)
	require.NoError(t, err)
	defer h.Close(ctx)

	h.RecordExecution(ctx, "git commit -m x", []string{"-m", "x"}, "/repo", 0, time.Now())

	ks, _ := h.View()
	assert.Empty(t, ks.Commands)
}

func TestHost_IgnorePatternsExcludeMatchingLines(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "learned-data.sqlite")
	cat := catalogue.Builtin(catalogue.DynamicProducers{})
	cfg := config.Default()
	cfg.IgnorePatterns = []string{"git push*"}

	h, err := pscue.Open(ctx, path, cat, cfg, nil)
	require.NoError(t, err)
	defer h.Close(ctx)

	h.RecordExecution(ctx, "git push origin main", []string{"origin", "main"}, "/repo", 0, time.Now())
	h.RecordExecution(ctx, "git add .", []string{"."}, "/repo", 0, time.Now())

	ks, _ := h.View()
	require.Len(t, ks.Commands, 1)
	assert.Equal(t, "git add", ks.Commands[0].CommandKey)
}

func TestHost_SaveFlushesDeltaAndReopenReloadsIt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "learned-data.sqlite")
	cat := catalogue.Builtin(catalogue.DynamicProducers{})
	cfg := config.Default()

	h, err := pscue.Open(ctx, path, cat, cfg, nil)
	require.NoError(t, err)

	h.RecordExecution(ctx, "npm install", []string{}, "/proj", 0, time.Now())
	h.Save(ctx)
	require.NoError(t, h.Close(ctx))

	reopened, err := pscue.Open(ctx, path, cat, cfg, nil)
	require.NoError(t, err)
	defer reopened.Close(ctx)

	ks, _ := reopened.View()
	require.Len(t, ks.Commands, 1)
	assert.Equal(t, "npm install", ks.Commands[0].CommandKey)
}

func TestHost_ClearWipesLearnedStateAndStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "learned-data.sqlite")
	cat := catalogue.Builtin(catalogue.DynamicProducers{})
	cfg := config.Default()

	h, err := pscue.Open(ctx, path, cat, cfg, nil)
	require.NoError(t, err)
	defer h.Close(ctx)

	h.RecordExecution(ctx, "npm test", []string{}, "/proj", 0, time.Now())
	h.Save(ctx)

	require.NoError(t, h.Clear(ctx))

	ks, ws := h.View()
	assert.Empty(t, ks.Commands)
	assert.Empty(t, ws.Transitions)

	reopened, err := pscue.Open(ctx, path, cat, cfg, nil)
	require.NoError(t, err)
	defer reopened.Close(ctx)
	reopenedKS, _ := reopened.View()
	assert.Empty(t, reopenedKS.Commands)
}

func TestHost_ExportImportRoundTrip(t *testing.T) {
	t.Parallel()

	h := newHost(t)
	ctx := context.Background()
	h.RecordExecution(ctx, "docker ps", []string{}, "/", 0, time.Now())

	docPath := filepath.Join(t.TempDir(), "export.yaml")
	require.NoError(t, h.Export(docPath))

	require.NoError(t, h.Clear(ctx))
	ks, _ := h.View()
	require.Empty(t, ks.Commands)

	require.NoError(t, h.Import(docPath, pscue.ImportReplace))
	ks, _ = h.View()
	require.Len(t, ks.Commands, 1)
	assert.Equal(t, "docker ps", ks.Commands[0].CommandKey)
}

func TestHost_Diagnostics(t *testing.T) {
	t.Parallel()

	h := newHost(t)
	ctx := context.Background()
	h.RecordExecution(ctx, "git status", []string{}, "/repo", 0, time.Now())

	diag := h.Diagnostics(time.Now())
	assert.Equal(t, 1, diag.CommandsKnown)
	assert.Equal(t, 1, diag.HistoryEntries)
	assert.False(t, diag.LearningDisabled)
}
