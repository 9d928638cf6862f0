package probe_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pscue/pscue/internal/probe"
)

func TestCommand_ParsesStdoutLines(t *testing.T) {
	t.Parallel()

	p := probe.Command(nil, time.Second, probe.Lines, "printf", `one\ntwo\n`)
	got := p(context.Background())

	var texts []string
	for _, a := range got {
		texts = append(texts, a.Text)
	}
	assert.Equal(t, []string{"one", "two"}, texts)
}

func TestCommand_FailureIsEmpty(t *testing.T) {
	t.Parallel()

	p := probe.Command(nil, time.Second, probe.Lines, "false")
	got := p(context.Background())
	assert.Empty(t, got)
}

func TestCommand_TimeoutIsEmpty(t *testing.T) {
	t.Parallel()

	p := probe.Command(nil, 5*time.Millisecond, probe.Lines, "sleep", "5")
	got := p(context.Background())
	assert.Empty(t, got)
}
