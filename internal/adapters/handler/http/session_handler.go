package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/services"
)

// SessionHandler drives the breathing and meditation timers.
type SessionHandler struct {
	mgr    *services.SessionManager
	svc    *services.WellnessService
	logger *zap.Logger
}

func NewSessionHandler(mgr *services.SessionManager, svc *services.WellnessService, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{
		mgr:    mgr,
		svc:    svc,
		logger: logger,
	}
}

type startSessionRequest struct {
	Kind string `json:"kind" binding:"required"`
	Type string `json:"type" binding:"required"`
}

func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/sessions")
	{
		sessions.GET("/catalog", h.Catalog)
		sessions.GET("/history", h.History)
		sessions.GET("/current", h.Current)
		sessions.POST("", h.Start)
		sessions.POST("/pause", h.Pause)
		sessions.POST("/resume", h.Resume)
		sessions.POST("/stop", h.Stop)
	}
}

// Catalog godoc
// @Summary List breathing exercises and guided meditations
// @Tags sessions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /sessions/catalog [get]
func (h *SessionHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"breathing":   domain.BreathingExercises(),
		"meditations": domain.Meditations(),
	})
}

// Start godoc
// @Summary Start a breathing or meditation session
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body startSessionRequest true "kind is breathing or meditation, type is the catalog key"
// @Success 201 {object} timers.Status
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Another session is active"
// @Router /sessions [post]
func (h *SessionHandler) Start(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	st, err := h.mgr.Start(req.Kind, req.Type)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

// Current godoc
// @Summary Active session status and the last completed session
// @Tags sessions
// @Produce json
// @Success 200 {object} services.SessionState
// @Router /sessions/current [get]
func (h *SessionHandler) Current(c *gin.Context) {
	h.mgr.Tick(c.Request.Context())
	c.JSON(http.StatusOK, h.mgr.State())
}

// Pause godoc
// @Summary Pause the active breathing session
// @Tags sessions
// @Produce json
// @Success 200 {object} timers.Status
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/pause [post]
func (h *SessionHandler) Pause(c *gin.Context) {
	st, err := h.mgr.Pause(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Resume godoc
// @Summary Resume a paused session
// @Tags sessions
// @Produce json
// @Success 200 {object} timers.Status
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/resume [post]
func (h *SessionHandler) Resume(c *gin.Context) {
	st, err := h.mgr.Resume()
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Stop godoc
// @Summary Abandon the active session without recording it
// @Tags sessions
// @Produce json
// @Success 200 {object} timers.Status
// @Failure 404 {object} map[string]string
// @Router /sessions/stop [post]
func (h *SessionHandler) Stop(c *gin.Context) {
	st, err := h.mgr.Stop()
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// History godoc
// @Summary Completed breathing and meditation sessions
// @Tags sessions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /sessions/history [get]
func (h *SessionHandler) History(c *gin.Context) {
	r, err := h.svc.Snapshot()
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"breathing":  tail(r.BreathingSessions, len(r.BreathingSessions)),
		"meditation": tail(r.MeditationSessions, len(r.MeditationSessions)),
	})
}
