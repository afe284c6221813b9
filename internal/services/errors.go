package services

import (
	"errors"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
}

// SetLogger replaces the package logger, used by main to share one configured instance.
func SetLogger(l *logrus.Logger) {
	log = l
}

// notFoundOr turns store.ErrNotFound into a NotFound error with message and
// anything else into an internal error.
func notFoundOr(err error, message, op string) error {
	if errors.Is(err, store.ErrNotFound) {
		return models.NewNotFoundError(message)
	}
	return internal(op, err)
}

func internal(op string, err error) error {
	log.WithError(err).WithField("op", op).Error("store operation failed")
	return models.NewInternalError("Something went wrong", err)
}
