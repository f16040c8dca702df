package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bharathbhent-backend/internal/apperr"
)

func TestGenerateCodeRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestIssueSendsMail(t *testing.T) {
	e := newEnv(t)
	code, err := e.otp.Issue(context.Background(), "asha@example.com")
	require.NoError(t, err)

	require.Len(t, e.mail.msgs, 1)
	msg := e.mail.msgs[0]
	assert.Equal(t, "asha@example.com", msg.To)
	assert.Equal(t, "Bharath Bhent - OTP Verification", msg.Subject)
	assert.Equal(t, "Your OTP for Bharath Bhent verification is "+code+". This OTP is valid for 5 minutes.", msg.Body)
}

func TestVerifyConsumesCode(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	code, err := e.otp.Issue(ctx, "asha@example.com")
	require.NoError(t, err)

	require.NoError(t, e.otp.Verify(ctx, "asha@example.com", code))
	requireKind(t, e.otp.Verify(ctx, "asha@example.com", code), apperr.InvalidCredential)
}

func TestVerifyWrongCodeOrEmail(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	code, err := e.otp.Issue(ctx, "asha@example.com")
	require.NoError(t, err)

	requireKind(t, e.otp.Verify(ctx, "ravi@example.com", code), apperr.InvalidCredential)
	requireKind(t, e.otp.Verify(ctx, "asha@example.com", "000000"), apperr.InvalidCredential)
	assert.NoError(t, e.otp.Verify(ctx, "asha@example.com", code))
}

func TestVerifyExpiry(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	code, err := e.otp.Issue(ctx, "asha@example.com")
	require.NoError(t, err)
	e.clock.advance(5 * time.Minute)
	assert.NoError(t, e.otp.Verify(ctx, "asha@example.com", code))

	code, err = e.otp.Issue(ctx, "asha@example.com")
	require.NoError(t, err)
	e.clock.advance(5*time.Minute + time.Second)
	requireKind(t, e.otp.Verify(ctx, "asha@example.com", code), apperr.InvalidCredential)
	assert.Equal(t, 0, e.db.OTPs().Len())
}

func TestEarlierCodesStayValid(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	first, err := e.otp.Issue(ctx, "asha@example.com")
	require.NoError(t, err)
	second, err := e.otp.Issue(ctx, "asha@example.com")
	require.NoError(t, err)
	if first == second {
		t.Skip("codes collided")
	}

	assert.NoError(t, e.otp.Verify(ctx, "asha@example.com", first))
	assert.NoError(t, e.otp.Verify(ctx, "asha@example.com", second))
}

func TestIssueMailFailure(t *testing.T) {
	e := newEnv(t)
	e.mail.err = errors.New("smtp: connection refused")

	_, err := e.otp.Issue(context.Background(), "asha@example.com")
	requireKind(t, err, apperr.Internal)
	assert.Equal(t, "Error sending OTP", apperr.Message(err))
}
