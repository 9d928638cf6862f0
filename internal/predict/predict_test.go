package predict_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscue/pscue/internal/catalogue"
	"github.com/pscue/pscue/internal/engine"
	"github.com/pscue/pscue/internal/knowledge"
	"github.com/pscue/pscue/internal/predict"
	"github.com/pscue/pscue/internal/workflow"
)

func newFixture() (*engine.Engine, *knowledge.Graph, *workflow.Learner) {
	install := catalogue.NewCommand("install")
	plugin := catalogue.NewCommand("plugin", catalogue.WithCommands(install))
	claude := catalogue.NewCommand("claude", catalogue.WithCommands(plugin))

	cat := catalogue.New()
	cat.Register(claude)

	return engine.New(cat), knowledge.New(), workflow.New()
}

// TestPredict_WordBoundaryConcatenation reproduces spec scenario 6:
// partial line "claude plugin" (no trailing space) with chosen literal
// "install" must produce "claude plugin install", not "claude
// pluginstall".
func TestPredict_WordBoundaryConcatenation(t *testing.T) {
	t.Parallel()

	eng, graph, learner := newFixture()
	p := predict.New(eng, graph, learner)

	got, ok := p.Predict(context.Background(), "claude plugin")
	require.True(t, ok)
	assert.Equal(t, "claude plugin install", got)
}

func TestPredict_UnknownCommandReturnsNoPrediction(t *testing.T) {
	t.Parallel()

	eng, graph, learner := newFixture()
	p := predict.New(eng, graph, learner)

	_, ok := p.Predict(context.Background(), "totallyunknowncmd foo")
	assert.False(t, ok)
}

func TestPredict_EmptyLineReturnsNoPrediction(t *testing.T) {
	t.Parallel()

	eng, graph, learner := newFixture()
	p := predict.New(eng, graph, learner)

	_, ok := p.Predict(context.Background(), "")
	assert.False(t, ok)
}

func TestPredict_PrefixReplacesLastToken(t *testing.T) {
	t.Parallel()

	eng, graph, learner := newFixture()
	p := predict.New(eng, graph, learner)

	got, ok := p.Predict(context.Background(), "claude plug")
	require.True(t, ok)
	assert.Equal(t, "claude plugin", got)
}
