package http

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/services"
)

const maxImportBytes = 10 << 20

// ProfileHandler covers everything about the user's own record that is not
// a daily entry: progress, settings, notifications and data portability.
type ProfileHandler struct {
	svc    *services.WellnessService
	logger *zap.Logger
}

func NewProfileHandler(svc *services.WellnessService, logger *zap.Logger) *ProfileHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileHandler{svc: svc, logger: logger}
}

func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard", h.Dashboard)
	r.GET("/achievements", h.Achievements)

	r.GET("/preferences", h.GetPreferences)
	r.PUT("/preferences", h.UpdatePreferences)

	r.GET("/notifications", h.ListNotifications)
	r.DELETE("/notifications", h.ClearNotifications)

	r.GET("/export", h.Export)
	r.POST("/import", h.Import)
}

// Dashboard godoc
// @Summary Score, streaks, counters and recent moods in one call
// @Tags profile
// @Produce json
// @Success 200 {object} services.Dashboard
// @Router /dashboard [get]
func (h *ProfileHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Dashboard())
}

// Achievements godoc
// @Summary All achievements in catalog order with unlock state
// @Tags profile
// @Produce json
// @Success 200 {array} domain.Achievement
// @Router /achievements [get]
func (h *ProfileHandler) Achievements(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Achievements())
}

// GetPreferences godoc
// @Summary Current preferences
// @Tags profile
// @Produce json
// @Success 200 {object} domain.Preferences
// @Router /preferences [get]
func (h *ProfileHandler) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Preferences())
}

// UpdatePreferences godoc
// @Summary Replace preferences
// @Tags profile
// @Accept json
// @Produce json
// @Param preferences body domain.Preferences true "Reminder time, theme and toggles"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /preferences [put]
func (h *ProfileHandler) UpdatePreferences(c *gin.Context) {
	prefs := h.svc.Preferences()
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	res, err := h.svc.UpdatePreferences(c.Request.Context(), prefs)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListNotifications godoc
// @Summary Pending check-in prompts and recent events
// @Tags notifications
// @Produce json
// @Success 200 {array} domain.Notification
// @Router /notifications [get]
func (h *ProfileHandler) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Notifications())
}

// ClearNotifications godoc
// @Summary Dismiss stored notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]int
// @Router /notifications [delete]
func (h *ProfileHandler) ClearNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cleared": h.svc.ClearNotifications()})
}

// Export godoc
// @Summary Download the full record with achievements
// @Tags data
// @Produce json
// @Success 200 {file} file
// @Router /export [get]
func (h *ProfileHandler) Export(c *gin.Context) {
	data, filename, err := h.svc.Export(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/json", data)
}

// Import godoc
// @Summary Replace the record with a previous export
// @Description Accepts the export either as the raw JSON body or as a multipart "file" field.
// @Tags data
// @Accept json
// @Accept mpfd
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /import [post]
func (h *ProfileHandler) Import(c *gin.Context) {
	data, err := h.readImport(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload", "details": err.Error()})
		return
	}

	res, err := h.svc.Import(c.Request.Context(), data)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ProfileHandler) readImport(c *gin.Context) ([]byte, error) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return io.ReadAll(body)
	}

	c.Request.Body = body
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
