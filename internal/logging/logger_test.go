package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_Level(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, New("production", "debug").GetLevel())
	assert.Equal(t, zerolog.WarnLevel, New("development", "warn").GetLevel())
}

func TestNew_FallsBackToInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, New("production", "loud").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("production", "").GetLevel())
}
