package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscue/pscue/internal/silog/silogtest"
)

func fakeEnv(kvs map[string]string) env {
	return func(key string) (string, bool) {
		v, ok := kvs[key]
		return v, ok
	}
}

func TestLoad_DefaultsWhenUnset(t *testing.T) {
	t.Parallel()

	cfg := load(fakeEnv(nil), silogtest.New(t))
	want := Default()
	assert.Equal(t, want, cfg)
}

func TestLoad_ParsesRecognizedValues(t *testing.T) {
	t.Parallel()

	cfg := load(fakeEnv(map[string]string{
		"PSCUE_DISABLE_LEARNING":  "true",
		"PSCUE_HISTORY_SIZE":      "250",
		"PSCUE_IGNORE_PATTERNS":   "secret*, *.key , ",
		"PSCUE_PCD_MAX_DEPTH":     "5",
		"PSCUE_PCD_RECURSIVE_SEARCH": "0",
		"PSCUE_DEBUG":             "yes",
	}), silogtest.New(t))

	assert.True(t, cfg.DisableLearning)
	require.Equal(t, 250, cfg.HistorySize)
	assert.Equal(t, []string{"secret*", "*.key"}, cfg.IgnorePatterns)
	assert.Equal(t, 5, cfg.PCDMaxDepth)
	assert.False(t, cfg.PCDRecursiveSearch)
	assert.True(t, cfg.Debug)
}

func TestLoad_UnparseableValueFallsBackToDefault(t *testing.T) {
	t.Parallel()

	cfg := load(fakeEnv(map[string]string{
		"PSCUE_HISTORY_SIZE": "not-a-number",
	}), silogtest.New(t))

	assert.Equal(t, Default().HistorySize, cfg.HistorySize)
}

func TestLoad_UnparseableFloatFallsBackToDefault(t *testing.T) {
	t.Parallel()

	cfg := load(fakeEnv(map[string]string{
		"PSCUE_PCD_FREQUENCY_WEIGHT": "heavy",
	}), silogtest.New(t))

	assert.Equal(t, Default().PCDFrequencyWeight, cfg.PCDFrequencyWeight)
}

func TestTruthy(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"1", "true", "TRUE", "yes", "on", " yes "} {
		assert.True(t, truthy(v), "expected %q to be truthy", v)
	}
	for _, v := range []string{"0", "false", "no", "", "off-ish"} {
		assert.False(t, truthy(v), "expected %q to be falsy", v)
	}
}
