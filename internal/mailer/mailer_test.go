package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMTPHonoursCancelledContext(t *testing.T) {
	s := NewSMTP("localhost", 2525, "", "", "noreply@example.com")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, Message{To: "a@example.com"}), context.Canceled)
}

func TestLogSender(t *testing.T) {
	var s Sender = Log{}
	assert.NoError(t, s.Send(context.Background(), Message{To: "a@example.com", Subject: "hi"}))
}
