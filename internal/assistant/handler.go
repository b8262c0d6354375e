package assistant

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"signflow-backend/internal/shared/server/respond"
)

const maxMessageLength = 2000

// Handler wires HTTP handlers to the responder.
type Handler struct {
	Responder *Responder
}

// NewHandler constructs a Handler.
func NewHandler(responder *Responder) *Handler {
	return &Handler{Responder: responder}
}

// RegisterRoutes attaches assistant routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/assistant/message", h.message)
}

type messageRequest struct {
	Message string `json:"message"`
}

func (h *Handler) message(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "message is required", nil)
		return
	}
	if len(req.Message) > maxMessageLength {
		respond.Error(c, http.StatusBadRequest, "validation_error", "message is too long", nil)
		return
	}

	respond.OK(c, h.Responder.Respond(c.Request.Context(), req.Message))
}
