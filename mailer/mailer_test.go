package mailer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/studio-api/mailer"
)

func TestNew_NoAPIKeyIsNop(t *testing.T) {
	m := mailer.New("", "no-reply@studio.local", "Studio")
	_, ok := m.(mailer.Nop)
	assert.True(t, ok)
	assert.NoError(t, m.Send(context.Background(), mailer.Message{ToEmail: "a@b.c"}))
}

func TestNew_WithAPIKeyIsSendGrid(t *testing.T) {
	m := mailer.New("SG.test", "no-reply@studio.local", "Studio")
	_, ok := m.(*mailer.SendGrid)
	assert.True(t, ok)
}

func TestRecorder(t *testing.T) {
	r := &mailer.Recorder{}
	require.NoError(t, r.Send(context.Background(), mailer.Message{ToEmail: "a@b.c", Subject: "hi"}))

	r.Err = errors.New("smtp down")
	assert.EqualError(t, r.Send(context.Background(), mailer.Message{ToEmail: "d@e.f"}), "smtp down")

	sent := r.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "hi", sent[0].Subject)
	assert.Equal(t, "d@e.f", sent[1].ToEmail)
}
