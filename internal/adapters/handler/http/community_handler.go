package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/services"
)

type CommunityHandler struct {
	svc    *services.WellnessService
	logger *zap.Logger
}

func NewCommunityHandler(svc *services.WellnessService, logger *zap.Logger) *CommunityHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommunityHandler{svc: svc, logger: logger}
}

type postRequest struct {
	Content string `json:"content"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type shareRequest struct {
	Email string `json:"email"`
}

func (h *CommunityHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/community", h.ListPosts)
	r.POST("/community", h.CreatePost)
	r.GET("/chat", h.History)
	r.POST("/chat", h.Chat)
	r.POST("/share", h.Share)
}

// ListPosts godoc
// @Summary Anonymous community posts, newest last
// @Tags community
// @Produce json
// @Success 200 {array} domain.CommunityPost
// @Router /community [get]
func (h *CommunityHandler) ListPosts(c *gin.Context) {
	r, err := h.svc.Snapshot()
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tail(r.CommunityPosts, len(r.CommunityPosts)))
}

// CreatePost godoc
// @Summary Share an anonymous post with the community
// @Tags community
// @Accept json
// @Produce json
// @Param post body postRequest true "Post content"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /community [post]
func (h *CommunityHandler) CreatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	res, err := h.svc.AddCommunityPost(c.Request.Context(), req.Content)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// History godoc
// @Summary Conversation with the wellness companion
// @Tags chat
// @Produce json
// @Success 200 {array} domain.AIConversation
// @Router /chat [get]
func (h *CommunityHandler) History(c *gin.Context) {
	r, err := h.svc.Snapshot()
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tail(r.AIConversations, len(r.AIConversations)))
}

// Chat godoc
// @Summary Send a message to the wellness companion
// @Tags chat
// @Accept json
// @Produce json
// @Param message body chatRequest true "User message"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /chat [post]
func (h *CommunityHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	res, err := h.svc.Chat(c.Request.Context(), req.Message)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Share godoc
// @Summary Record a share of progress with a therapist
// @Tags community
// @Accept json
// @Produce json
// @Param share body shareRequest true "Therapist email"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /share [post]
func (h *CommunityHandler) Share(c *gin.Context) {
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	res, err := h.svc.ShareWithTherapist(c.Request.Context(), req.Email)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
