package compliance

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"signflow-backend/internal/documents"
	"signflow-backend/internal/extract"
	"signflow-backend/internal/shared/server/middleware"
	"signflow-backend/internal/shared/server/respond"
	"signflow-backend/internal/shared/storage/object"
)

// Handler exposes standalone compliance checks over HTTP. Callers pass either
// a stored document ID or raw text.
type Handler struct {
	Engine *Engine
	Docs   documents.Repo
	Store  object.ObjectStore
}

// NewHandler constructs a Handler.
func NewHandler(engine *Engine, docs documents.Repo, store object.ObjectStore) *Handler {
	return &Handler{Engine: engine, Docs: docs, Store: store}
}

// RegisterRoutes attaches compliance routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/compliance/check", h.check)
}

type checkRequest struct {
	DocumentID   string `json:"documentId"`
	DocumentType string `json:"documentType"`
	Text         string `json:"text"`
}

func (h *Handler) check(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.DocumentID = strings.TrimSpace(req.DocumentID)
	if req.DocumentID == "" && strings.TrimSpace(req.Text) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "documentId or text is required", nil)
		return
	}

	var content extract.Content
	if req.DocumentID != "" {
		ownerID := middleware.OwnerIDFromRequest(c)
		doc, err := h.Docs.GetByID(c.Request.Context(), ownerID, req.DocumentID)
		if err != nil {
			if errors.Is(err, documents.ErrNotFound) {
				respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch document", nil)
			return
		}
		content, err = extract.FromStore(c.Request.Context(), h.Store, doc.StorageKey, doc.MimeType, doc.FileName)
		if err != nil {
			switch {
			case errors.Is(err, extract.ErrUnsupportedFormat):
				respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_format", "document format is not supported", nil)
			case errors.Is(err, extract.ErrCorruptFile):
				respond.Error(c, http.StatusUnprocessableEntity, "corrupt_file", "document could not be parsed", nil)
			default:
				respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read document", nil)
			}
			return
		}
		c.Set("documentId", req.DocumentID)
	} else {
		var err error
		content, err = extract.FromBytes(c.Request.Context(), []byte(req.Text), "text/plain", "inline.txt")
		if err != nil {
			respond.Error(c, http.StatusUnprocessableEntity, "corrupt_file", "text could not be processed", nil)
			return
		}
	}

	result := h.Engine.Check(Input{
		Content:      content,
		DocumentType: strings.TrimSpace(req.DocumentType),
	})
	respond.JSON(c, http.StatusOK, result)
}
