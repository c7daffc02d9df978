package jobs

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completerFunc func(ctx context.Context) (int64, error)

func (f completerFunc) CompletePast(ctx context.Context) (int64, error) { return f(ctx) }

func TestRunCompletion(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	RunCompletion(context.Background(), completerFunc(func(context.Context) (int64, error) { return 3, nil }), logger)
	assert.Contains(t, buf.String(), `"completed":3`)

	buf.Reset()
	RunCompletion(context.Background(), completerFunc(func(context.Context) (int64, error) {
		return 0, errors.New("db down")
	}), logger)
	assert.Contains(t, buf.String(), "db down")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestStartScheduler(t *testing.T) {
	noop := completerFunc(func(context.Context) (int64, error) { return 0, nil })

	c, err := StartScheduler("", noop, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = StartScheduler("not a schedule", noop, zerolog.Nop())
	require.Error(t, err)

	c, err = StartScheduler("5 0 * * *", noop, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}
