// Package pscue wires the Catalogue, Completion Engine, Knowledge
// Graph, Command History, Workflow Learner, Predictor, Smart-Navigation
// Engine, and Persistence Layer into the single long-lived host process
// described by spec §5 ("Predictor/learning host") and exposes the
// management surface from §6.
package pscue

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pscue/pscue/internal/catalogue"
	"github.com/pscue/pscue/internal/cmdkey"
	"github.com/pscue/pscue/internal/config"
	"github.com/pscue/pscue/internal/engine"
	"github.com/pscue/pscue/internal/history"
	"github.com/pscue/pscue/internal/knowledge"
	"github.com/pscue/pscue/internal/navigate"
	"github.com/pscue/pscue/internal/persistence"
	"github.com/pscue/pscue/internal/predict"
	"github.com/pscue/pscue/internal/silog"
	"github.com/pscue/pscue/internal/workflow"
)

// CacheTTL is the completion-cache lifetime from §5 "Timeouts".
const CacheTTL = 5 * time.Minute

// Host is the process-wide object the management CLI talks to. It owns every in-memory subsystem plus the
// persistence store and auto-save timer.
type Host struct {
	cfg config.Config
	log *silog.Logger

	cat       *catalogue.Catalogue
	Engine    *engine.Engine
	Predictor *predict.Predictor
	Navigate  *navigate.Engine

	graph   *knowledge.Graph
	history *history.Ring
	learner *workflow.Learner

	store     *persistence.Store
	autosaver *persistence.AutoSaver

	deltaMu      sync.Mutex
	deltaGraph   *knowledge.Graph
	deltaLearner *workflow.Learner
	deltaHistory []history.Entry
}

// Open loads storePath (quarantining it if corrupt, per §7), builds
// every in-memory subsystem from the loaded state, and starts the
// auto-save timer. Callers must call Close when done, typically via
// defer, to stop the timer and flush a final delta.
func Open(ctx context.Context, storePath string, cat *catalogue.Catalogue, cfg config.Config, log *silog.Logger) (*Host, error) {
	if log == nil {
		log = silog.Nop()
	}

	if dir := filepath.Dir(storePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	store, ks, ws, hist, err := persistence.OpenOrQuarantine(ctx, storePath, log, nil)
	if err != nil {
		return nil, err
	}

	graph := knowledge.New()
	graph.LoadSnapshot(ks)

	learner := workflow.New()
	learner.LoadSnapshot(ws)

	hRing := history.New(cfg.HistorySize)
	for _, e := range hist {
		hRing.Append(e)
	}

	eng := engine.New(cat, engine.WithLogger(log), engine.WithCache(CacheTTL))
	nav := navigate.New(graph, navigate.WithScanDepth(cfg.PCDMaxDepth))
	pred := predict.New(eng, graph, learner)

	h := &Host{
		cfg:          cfg,
		log:          log,
		cat:          cat,
		Engine:       eng,
		Predictor:    pred,
		Navigate:     nav,
		graph:        graph,
		history:      hRing,
		learner:      learner,
		store:        store,
		deltaGraph:   knowledge.New(),
		deltaLearner: workflow.New(),
	}
	h.autosaver = persistence.NewAutoSaver(store, h, 0, log)
	go h.autosaver.Start(ctx)

	return h, nil
}

// Close stops the auto-save timer, flushes any remaining delta, and
// closes the underlying store.
func (h *Host) Close(ctx context.Context) error {
	h.autosaver.Stop()
	h.autosaver.Flush(ctx)
	return h.store.Close()
}

// Delta implements persistence.DeltaSource.
func (h *Host) Delta() (knowledge.Snapshot, workflow.Snapshot, []history.Entry) {
	h.deltaMu.Lock()
	defer h.deltaMu.Unlock()

	hist := make([]history.Entry, len(h.deltaHistory))
	copy(hist, h.deltaHistory)
	return h.deltaGraph.Snapshot(), h.deltaLearner.Snapshot(), hist
}

// ClearDelta implements persistence.DeltaSource. deltaLearner is reset
// in place rather than replaced: Learner.Observe is stateful (it tracks
// the single most-recently-observed command to learn the *next*
// transition), so swapping in a fresh Learner here would silently drop
// the transition spanning the flush boundary, e.g. commands A, flush,
// B, C would never record B->C in the delta. Learner.Reset clears the
// learned edges while keeping that last-command anchor intact.
func (h *Host) ClearDelta() {
	h.deltaMu.Lock()
	defer h.deltaMu.Unlock()

	h.deltaGraph = knowledge.New()
	h.deltaLearner.Reset()
	h.deltaHistory = nil
}

// RecordExecution is the feedback receiver from §6: invoked after every
// command execution with the parsed command, its exit status, its
// arguments, and the working directory. It updates History
// unconditionally, and the Knowledge Graph / Workflow Learner only on
// success (§3 "a successful-command signal... enters the Feedback
// path"), per PSCUE_DISABLE_LEARNING and PSCUE_IGNORE_PATTERNS.
func (h *Host) RecordExecution(ctx context.Context, rawLine string, arguments []string, workingDirectory string, exitStatus int, ts time.Time) {
	tokens := cmdkey.Split(rawLine)
	if len(tokens) == 0 {
		return
	}
	key := cmdkey.Of(tokens)

	entry := history.Entry{
		Timestamp:        ts,
		CommandKey:       key,
		Arguments:        arguments,
		WorkingDirectory: workingDirectory,
		ExitStatus:       exitStatus,
	}
	h.history.Append(entry)
	h.deltaMu.Lock()
	h.deltaHistory = append(h.deltaHistory, entry)
	h.deltaMu.Unlock()

	if h.cfg.DisableLearning || exitStatus != 0 {
		return
	}
	if h.ignored(rawLine) {
		return
	}

	h.graph.RecordUsage(ctx, key, arguments, workingDirectory)
	h.deltaGraphRecord(ctx, key, arguments, workingDirectory)

	h.learner.Observe(key, ts)
	h.deltaLearnerObserve(key, ts)
}

func (h *Host) deltaGraphRecord(ctx context.Context, key string, arguments []string, workingDirectory string) {
	h.deltaMu.Lock()
	defer h.deltaMu.Unlock()
	h.deltaGraph.RecordUsage(ctx, key, arguments, workingDirectory)
}

func (h *Host) deltaLearnerObserve(key string, ts time.Time) {
	h.deltaMu.Lock()
	defer h.deltaMu.Unlock()
	h.deltaLearner.Observe(key, ts)
}

// ignored reports whether rawLine matches one of the configured
// PSCUE_IGNORE_PATTERNS glob patterns (§6, §7).
func (h *Host) ignored(rawLine string) bool {
	for _, pattern := range h.cfg.IgnorePatterns {
		if ok, err := filepath.Match(pattern, rawLine); err == nil && ok {
			return true
		}
	}
	return false
}
