package service

import (
	"errors"

	"github.com/rs/zerolog/log"

	"bharathbhent-backend/internal/apperr"
	"bharathbhent-backend/internal/repository"
)

// internal logs the cause and hides it from the client.
func internal(op string, err error) error {
	log.Error().Err(err).Str("op", op).Msg("storage failure")
	return apperr.Wrap(apperr.Internal, "Server Error", err)
}

func notFoundOr(err error, msg, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.New(apperr.NotFound, msg)
	}
	return internal(op, err)
}
