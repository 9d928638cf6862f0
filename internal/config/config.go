// Package config reads the PSCUE_* environment variables (spec §6
// "Configuration via environment"). Every variable has a built-in
// default; an unset variable keeps it silently, and a set but
// unparseable value falls back to it and is logged once rather than
// treated as fatal (§7 "Unknown environment value").
//
// Of the PSCUE_PCD_* navigation tunables only PCDMaxDepth is applied:
// package pscue passes it to the navigate engine as its scan depth. The
// weights, exact-match boost, fuzzy threshold, decay days and
// recursive-search flag are parsed into Config, and no package reads
// them.
package config

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/pscue/pscue/internal/history"
	"github.com/pscue/pscue/internal/navigate"
	"github.com/pscue/pscue/internal/silog"
)

// Config is the fully-resolved set of tunables, after applying
// defaults for anything unset or invalid.
type Config struct {
	DisableLearning bool
	HistorySize     int
	IgnorePatterns  []string

	PCDFrequencyWeight      float64
	PCDRecencyWeight        float64
	PCDDistanceWeight       float64
	PCDMaxDepth             int
	PCDRecursiveSearch      bool
	PCDFuzzyMinMatchPercent float64
	PCDExactMatchBoost      float64
	PCDScoreDecayDays       float64

	Debug bool
}

// Default returns the built-in defaults, matching the constants each
// subsystem already uses on its own (history.DefaultCapacity,
// navigate's weight constants).
func Default() Config {
	return Config{
		DisableLearning: false,
		HistorySize:     history.DefaultCapacity,
		IgnorePatterns:  nil,

		PCDFrequencyWeight:      navigate.FrequencyWeight,
		PCDRecencyWeight:        navigate.RecencyWeight,
		PCDDistanceWeight:       navigate.DistanceWeight,
		PCDMaxDepth:             navigate.DefaultScanDepth,
		PCDRecursiveSearch:      true,
		PCDFuzzyMinMatchPercent: navigate.DefaultFuzzyMinScore * 100,
		PCDExactMatchBoost:      navigate.ExactBoost,
		PCDScoreDecayDays:       30.0,

		Debug: false,
	}
}

// env abstracts environment-variable lookup so Load can be tested
// without mutating process-global state.
type env func(key string) (string, bool)

func osEnv(key string) (string, bool) { return os.LookupEnv(key) }

// Load resolves Config from the process environment, logging once per
// variable that is set but cannot be parsed.
func Load(log *silog.Logger) Config {
	return load(osEnv, log)
}

func load(getenv env, log *silog.Logger) Config {
	if log == nil {
		log = silog.Nop()
	}
	cfg := Default()

	if v, ok := getenv("PSCUE_DISABLE_LEARNING"); ok {
		cfg.DisableLearning = truthy(v)
	}
	cfg.HistorySize = intVar(getenv, log, "PSCUE_HISTORY_SIZE", cfg.HistorySize)
	if v, ok := getenv("PSCUE_IGNORE_PATTERNS"); ok {
		cfg.IgnorePatterns = splitPatterns(v)
	}

	cfg.PCDFrequencyWeight = floatVar(getenv, log, "PSCUE_PCD_FREQUENCY_WEIGHT", cfg.PCDFrequencyWeight)
	cfg.PCDRecencyWeight = floatVar(getenv, log, "PSCUE_PCD_RECENCY_WEIGHT", cfg.PCDRecencyWeight)
	cfg.PCDDistanceWeight = floatVar(getenv, log, "PSCUE_PCD_DISTANCE_WEIGHT", cfg.PCDDistanceWeight)
	cfg.PCDMaxDepth = intVar(getenv, log, "PSCUE_PCD_MAX_DEPTH", cfg.PCDMaxDepth)
	if v, ok := getenv("PSCUE_PCD_RECURSIVE_SEARCH"); ok {
		cfg.PCDRecursiveSearch = truthy(v)
	}
	cfg.PCDFuzzyMinMatchPercent = floatVar(getenv, log, "PSCUE_PCD_FUZZY_MIN_MATCH_PERCENTAGE", cfg.PCDFuzzyMinMatchPercent)
	cfg.PCDExactMatchBoost = floatVar(getenv, log, "PSCUE_PCD_EXACT_MATCH_BOOST", cfg.PCDExactMatchBoost)
	cfg.PCDScoreDecayDays = floatVar(getenv, log, "PSCUE_PCD_SCORE_DECAY_DAYS", cfg.PCDScoreDecayDays)

	if v, ok := getenv("PSCUE_DEBUG"); ok {
		cfg.Debug = truthy(v)
	}

	return cfg
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func splitPatterns(v string) []string {
	fields := strings.Split(v, ",")
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func intVar(getenv env, log *silog.Logger, key string, fallback int) int {
	v, ok := getenv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		logFallbackOnce(log, key, v)
		return fallback
	}
	return n
}

func floatVar(getenv env, log *silog.Logger, key string, fallback float64) float64 {
	v, ok := getenv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		logFallbackOnce(log, key, v)
		return fallback
	}
	return f
}

var warnOnce sync.Map // map[string]struct{}, keyed by env var name

func logFallbackOnce(log *silog.Logger, key, value string) {
	if _, seen := warnOnce.LoadOrStore(key, struct{}{}); seen {
		return
	}
	log.Warn("unrecognized environment value, falling back to default",
		"variable", key, "value", value)
}
