package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/services"
)

const defaultListLimit = 50

// EntryHandler serves the daily check-ins: moods, journal entries and sleep
// logs.
type EntryHandler struct {
	svc    *services.WellnessService
	logger *zap.Logger
}

func NewEntryHandler(svc *services.WellnessService, logger *zap.Logger) *EntryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntryHandler{
		svc:    svc,
		logger: logger,
	}
}

type createMoodRequest struct {
	Emotion   *domain.Emotion `json:"emotion"`
	Value     *int            `json:"value"`
	Intensity int             `json:"intensity"`
	Factors   []string        `json:"factors"`
	Note      string          `json:"note"`
}

type createJournalRequest struct {
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Mood    string   `json:"mood"`
}

type createSleepRequest struct {
	Bedtime  string `json:"bedtime"`
	WakeTime string `json:"wakeTime"`
	Quality  string `json:"quality"`
	Dreams   string `json:"dreams"`
}

func (h *EntryHandler) RegisterRoutes(router *gin.RouterGroup) {
	moods := router.Group("/moods")
	{
		moods.POST("", h.CreateMood)
		moods.GET("", h.ListMoods)
	}

	journals := router.Group("/journals")
	{
		journals.POST("", h.CreateJournal)
		journals.GET("", h.ListJournals)
	}

	sleep := router.Group("/sleep")
	{
		sleep.POST("", h.CreateSleep)
		sleep.GET("", h.ListSleep)
	}
}

// CreateMood godoc
// @Summary Record a mood check-in
// @Tags moods
// @Accept json
// @Produce json
// @Param mood body createMoodRequest true "Emotion or legacy value, intensity, factors and note"
// @Success 201 {object} map[string]interface{} "Saved entry, unlocked achievements and suggestion"
// @Failure 400 {object} map[string]string
// @Router /moods [post]
func (h *EntryHandler) CreateMood(c *gin.Context) {
	var req createMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	res, err := h.svc.RecordMood(c.Request.Context(), services.MoodInput{
		Emotion:   req.Emotion,
		Value:     req.Value,
		Intensity: req.Intensity,
		Factors:   req.Factors,
		Note:      req.Note,
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// ListMoods godoc
// @Summary List the most recent mood entries
// @Tags moods
// @Produce json
// @Param limit query int false "Maximum entries (default 50)"
// @Success 200 {array} domain.MoodEntry
// @Router /moods [get]
func (h *EntryHandler) ListMoods(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	r, err := h.svc.Snapshot()
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tail(r.Moods, limit))
}

// CreateJournal godoc
// @Summary Save and analyze a journal entry
// @Tags journals
// @Accept json
// @Produce json
// @Param journal body createJournalRequest true "Journal content"
// @Success 201 {object} map[string]interface{} "Entry with sentiment and themes"
// @Failure 400 {object} map[string]string
// @Router /journals [post]
func (h *EntryHandler) CreateJournal(c *gin.Context) {
	var req createJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	res, err := h.svc.RecordJournal(c.Request.Context(), services.JournalInput{
		Content: req.Content,
		Tags:    req.Tags,
		Mood:    req.Mood,
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// ListJournals godoc
// @Summary List recent journal entries
// @Tags journals
// @Produce json
// @Param limit query int false "Maximum entries (default 50)"
// @Success 200 {array} domain.JournalEntry
// @Router /journals [get]
func (h *EntryHandler) ListJournals(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	r, err := h.svc.Snapshot()
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tail(r.Journals, limit))
}

// CreateSleep godoc
// @Summary Log a night of sleep
// @Tags sleep
// @Accept json
// @Produce json
// @Param sleep body createSleepRequest true "Bedtime and wake time as HH:MM"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /sleep [post]
func (h *EntryHandler) CreateSleep(c *gin.Context) {
	var req createSleepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	res, err := h.svc.LogSleep(c.Request.Context(), services.SleepInput{
		Bedtime:  req.Bedtime,
		WakeTime: req.WakeTime,
		Quality:  req.Quality,
		Dreams:   req.Dreams,
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// ListSleep godoc
// @Summary List recent sleep logs
// @Tags sleep
// @Produce json
// @Param limit query int false "Maximum entries (default 50)"
// @Success 200 {array} domain.SleepLog
// @Router /sleep [get]
func (h *EntryHandler) ListSleep(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	r, err := h.svc.Snapshot()
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tail(r.SleepLogs, limit))
}

func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultListLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	return n, true
}

// tail returns the last n items, never nil.
func tail[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[len(items)-n:]
	}
	if items == nil {
		return []T{}
	}
	return items
}
