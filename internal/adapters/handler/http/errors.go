package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/services"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/timers"
)

var badRequestErrors = []error{
	domain.ErrMoodSelectionEmpty,
	domain.ErrInvalidIntensity,
	domain.ErrInvalidMoodValue,
	domain.ErrUnknownEmotion,
	domain.ErrJournalEmpty,
	domain.ErrSleepTimesRequired,
	domain.ErrInvalidClockTime,
	domain.ErrInvalidSleepRating,
	domain.ErrPostEmpty,
	domain.ErrPostTooLong,
	domain.ErrMessageEmpty,
	domain.ErrInvalidEmail,
	domain.ErrInvalidReminder,
	domain.ErrInvalidTheme,
	domain.ErrInvalidPeriod,
	domain.ErrInvalidReportType,
	domain.ErrInvalidSession,
	services.ErrInvalidImport,
	services.ErrUnknownKind,
}

var notFoundErrors = []error{
	domain.ErrUnknownExercise,
	domain.ErrUnknownMeditation,
	domain.ErrAchievementNotFound,
	services.ErrNoActiveSession,
}

var conflictErrors = []error{
	services.ErrSessionBusy,
	timers.ErrNotRunning,
	timers.ErrNotPaused,
	timers.ErrAlreadyStarted,
	timers.ErrPauseUnsupported,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func handleError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case isAny(err, badRequestErrors):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case isAny(err, notFoundErrors):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case isAny(err, conflictErrors):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	default:
		_ = c.Error(err)
		logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
