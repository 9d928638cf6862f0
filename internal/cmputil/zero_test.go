package cmputil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/pscue/pscue/internal/cmputil"
)

func TestZero(t *testing.T) {
	assert.False(t, cmputil.Zero(1))
	assert.True(t, cmputil.Zero(0))
}
