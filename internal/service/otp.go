package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog/log"

	"bharathbhent-backend/internal/apperr"
	"bharathbhent-backend/internal/mailer"
	"bharathbhent-backend/internal/models"
	"bharathbhent-backend/internal/repository"
)

const (
	otpMin   = 100000
	otpRange = 900000
)

type OTPService struct {
	store    OTPStore
	mail     mailer.Sender
	appName  string
	validity time.Duration
	now      func() time.Time
}

func NewOTPService(store OTPStore, mail mailer.Sender, appName string, validity time.Duration) *OTPService {
	return &OTPService{
		store:    store,
		mail:     mail,
		appName:  appName,
		validity: validity,
		now:      time.Now,
	}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpRange))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}

// Issue stores a fresh code for email and mails it. Earlier codes for the
// same address stay valid until they expire or are used.
func (s *OTPService) Issue(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "Error sending OTP", err)
	}
	rec := &models.OTP{Email: email, Code: code, CreatedAt: s.now()}
	if err := s.store.Create(ctx, rec); err != nil {
		log.Error().Err(err).Str("email", email).Msg("store otp")
		return "", apperr.Wrap(apperr.Internal, "Error sending OTP", err)
	}

	msg := mailer.Message{
		To:      email,
		Subject: fmt.Sprintf("%s - OTP Verification", s.appName),
		Body: fmt.Sprintf("Your OTP for %s verification is %s. This OTP is valid for %d minutes.",
			s.appName, code, int(s.validity.Minutes())),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		log.Error().Err(err).Str("email", email).Msg("send otp")
		return "", apperr.Wrap(apperr.Internal, "Error sending OTP", err)
	}
	return code, nil
}

// Verify consumes the record matching email and code. A matched record is
// deleted even when it turns out to be expired.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	rec, err := s.store.Consume(ctx, email, code)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.New(apperr.InvalidCredential, "Invalid OTP")
	}
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Error verifying OTP", err)
	}
	if rec.Expired(s.now(), s.validity) {
		return apperr.New(apperr.InvalidCredential, "Invalid OTP")
	}
	return nil
}
