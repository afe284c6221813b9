package controllers

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/gin-recipe-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-api/internal/middleware"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
}

// SetLogger replaces the package logger.
func SetLogger(l *logrus.Logger) {
	log = l
}

var statusByKind = map[models.ErrorKind]int{
	models.KindValidation:      http.StatusBadRequest,
	models.KindNotFound:        http.StatusNotFound,
	models.KindUnauthorized:    http.StatusForbidden,
	models.KindUnauthenticated: http.StatusUnauthorized,
	models.KindConflict:        http.StatusConflict,
	models.KindInternal:        http.StatusInternalServerError,
}

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	if status, ok := statusByKind[models.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes the envelope for err. Untyped and internal errors are
// logged and answered with a generic message.
func respondError(ctx *gin.Context, err error) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Kind == models.KindInternal {
		log.WithFields(logrus.Fields{
			"method": ctx.Request.Method,
			"path":   ctx.FullPath(),
			"error":  err.Error(),
		}).Error("Request failed")
		ctx.JSON(http.StatusInternalServerError, models.NewErrorResponse(models.ErrInternalServer, "Something went wrong"))
		return
	}
	ctx.JSON(StatusFor(appErr), models.NewErrorResponse(appErr.Kind.Code(), appErr.Message, appErr.Details))
}

func badRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, models.NewErrorResponse(models.ErrBadRequest, message))
}

// principal returns the authenticated caller. Routes are always mounted
// behind Authenticate, so a missing principal is answered with 401.
func principal(ctx *gin.Context) (*auth.Principal, bool) {
	p, ok := middleware.PrincipalFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, models.NewErrorResponse(models.ErrUnauthorized, "Authentication required"))
	}
	return p, ok
}

func intPtr(n int) *int {
	return &n
}
