package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"patient-portal-server/internal/config"
)

type fakeConn struct {
	gomail.SendFunc
	closed bool
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func TestNewMailer_DisabledWithoutHost(t *testing.T) {
	assert.Nil(t, NewMailer(config.MailerConfig{}))

	m := NewMailer(config.MailerConfig{Host: "smtp.example.com", Port: 587, Username: "bot@example.com"})
	require.NotNil(t, m)
	assert.Equal(t, "bot@example.com", m.from)
}

func TestMailer_Send(t *testing.T) {
	var (
		gotFrom string
		gotTo   []string
		raw     bytes.Buffer
	)
	conn := &fakeConn{SendFunc: func(from string, to []string, msg io.WriterTo) error {
		gotFrom, gotTo = from, to
		_, err := msg.WriteTo(&raw)
		return err
	}}
	m := &Mailer{from: "portal@example.com", dial: func() (gomail.SendCloser, error) { return conn, nil }}

	require.NoError(t, m.Send(context.Background(), "ada@example.com", "Appointment scheduled", "Dr. X at 09:00 AM"))
	assert.Equal(t, "portal@example.com", gotFrom)
	assert.Equal(t, []string{"ada@example.com"}, gotTo)
	assert.Contains(t, raw.String(), "Subject: Appointment scheduled")
	assert.Contains(t, raw.String(), "Dr. X at 09:00 AM")
	assert.True(t, conn.closed)
}

func TestMailer_SendErrors(t *testing.T) {
	m := &Mailer{from: "portal@example.com", dial: func() (gomail.SendCloser, error) {
		return nil, errors.New("connection refused")
	}}
	err := m.Send(context.Background(), "ada@example.com", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, "ada@example.com", "s", "b"), context.Canceled)
}
