package analysis

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestHandlerAnalyzeReturnsSnapshot(t *testing.T) {
	svc, _, docID := newTestService(t)
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+docID+"/analyze", nil)
	req.Header.Set("X-Owner-Id", "owner-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var res Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.ID == "" || res.DocumentID != docID {
		t.Fatalf("unexpected snapshot: %+v", res)
	}
	if res.Classification.Type != TypeServiceAgreement {
		t.Fatalf("expected service_agreement, got %s", res.Classification.Type)
	}
}

func TestHandlerAnalyzeUnknownDocument(t *testing.T) {
	svc, _, _ := newTestService(t)
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/missing/analyze", nil)
	req.Header.Set("X-Owner-Id", "owner-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandlerGetAnalysisNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHandlerListAnalyses(t *testing.T) {
	svc, _, docID := newTestService(t)
	router := newTestRouter(svc)

	analyzeReq := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+docID+"/analyze", nil)
	analyzeReq.Header.Set("X-Owner-Id", "owner-1")
	router.ServeHTTP(httptest.NewRecorder(), analyzeReq)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses?limit=10", nil)
	req.Header.Set("X-Owner-Id", "owner-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var out []Result
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 analysis, got %d", len(out))
	}
}
