package workflow

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"signflow-backend/internal/analysis"
	"signflow-backend/internal/shared/server/respond"
)

const maxParties = 20

// Handler wires HTTP handlers to the optimizer. Analyses may be nil when no
// snapshot store is available.
type Handler struct {
	Opt      *Optimizer
	Analyses analysis.Repo
}

// NewHandler constructs a Handler.
func NewHandler(opt *Optimizer, analyses analysis.Repo) *Handler {
	return &Handler{Opt: opt, Analyses: analyses}
}

// RegisterRoutes attaches workflow routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/workflows/optimize", h.optimize)
}

func (h *Handler) optimize(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	if len(req.Parties) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "at least one party is required", nil)
		return
	}
	if len(req.Parties) > maxParties {
		respond.Error(c, http.StatusBadRequest, "validation_error", "too many parties", nil)
		return
	}
	for i := range req.Parties {
		if strings.TrimSpace(req.Parties[i].ID) == "" {
			respond.Error(c, http.StatusBadRequest, "validation_error", "every party needs an id", nil)
			return
		}
		if strings.TrimSpace(req.Parties[i].Email) == "" {
			respond.Error(c, http.StatusBadRequest, "validation_error", "every party needs an email", nil)
			return
		}
	}

	switch req.Urgency {
	case "", UrgencyLow, UrgencyNormal, UrgencyHigh:
	default:
		respond.Error(c, http.StatusBadRequest, "validation_error", "urgency must be low, normal, or high", nil)
		return
	}
	if req.Urgency == "" {
		req.Urgency = UrgencyNormal
	}

	if req.Analysis == nil && strings.TrimSpace(req.AnalysisID) != "" {
		if h.Analyses == nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "analysisId lookup is not available", nil)
			return
		}
		stored, err := h.Analyses.GetByID(c.Request.Context(), req.AnalysisID)
		if err != nil {
			if errors.Is(err, analysis.ErrNotFound) {
				respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
			return
		}
		req.Analysis = &stored
		if req.DocumentType == "" {
			req.DocumentType = string(stored.Classification.Type)
		}
	}

	plan := h.Opt.Optimize(req)
	respond.OK(c, plan)
}
