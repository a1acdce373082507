package log

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_SetsGlobalLevel(t *testing.T) {
	require.NoError(t, Init("warn"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestInit_RejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init("not-a-level"))
}
