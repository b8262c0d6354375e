package workflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"signflow-backend/internal/analysis"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(newTestOptimizer(), analysis.NewMemoryRepo()).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postOptimize(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workflows/optimize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandlerOptimizeReturnsPlan(t *testing.T) {
	router := newTestRouter()

	body := `{
		"documentType": "service_agreement",
		"urgency": "normal",
		"parties": [
			{"id": "a", "name": "Alice", "email": "alice@example.com", "role": "signer", "signingOrder": 1, "required": true},
			{"id": "b", "name": "Bob", "email": "bob@example.com", "role": "approver", "required": true}
		]
	}`
	w := postOptimize(t, router, body)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var plan Plan
	if err := json.Unmarshal(w.Body.Bytes(), &plan); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(plan.Order) != 2 {
		t.Fatalf("expected 2 parties in order, got %v", plan.Order)
	}
	if plan.SuccessProbability < 0.60 || plan.SuccessProbability > 0.95 {
		t.Fatalf("probability out of bounds: %f", plan.SuccessProbability)
	}
	if plan.FallbackUsed {
		t.Fatalf("unexpected fallback plan")
	}
}

func TestHandlerOptimizeValidation(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		name string
		body string
	}{
		{"no parties", `{"documentType": "nda", "parties": []}`},
		{"missing email", `{"documentType": "nda", "parties": [{"id": "a", "role": "signer"}]}`},
		{"missing id", `{"documentType": "nda", "parties": [{"email": "a@example.com", "role": "signer"}]}`},
		{"bad urgency", `{"documentType": "nda", "urgency": "extreme", "parties": [{"id": "a", "email": "a@example.com", "role": "signer"}]}`},
		{"not json", `not json`},
	}
	for _, tc := range cases {
		w := postOptimize(t, router, tc.body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d: %s", tc.name, w.Code, w.Body.String())
		}
	}
}

func TestHandlerOptimizeResolvesAnalysisID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := analysis.NewMemoryRepo()
	router := gin.New()
	NewHandler(newTestOptimizer(), repo).RegisterRoutes(router.Group("/api/v1"))

	stored := analysis.Result{
		ID:             "analysis-1",
		Classification: analysis.Classification{Type: analysis.TypePartnershipAgreement, Confidence: 0.8},
	}
	if err := repo.Create(context.Background(), "owner-1", stored); err != nil {
		t.Fatalf("Create: %v", err)
	}

	body := `{"analysisId": "analysis-1", "parties": [{"id": "a", "email": "a@example.com", "role": "signer"}]}`
	w := postOptimize(t, router, body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var plan Plan
	if err := json.Unmarshal(w.Body.Bytes(), &plan); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// Document type comes from the stored classification, forcing sequential.
	if plan.Type != TypeSequential {
		t.Fatalf("expected sequential from stored partnership analysis, got %s", plan.Type)
	}

	missing := `{"analysisId": "nope", "parties": [{"id": "a", "email": "a@example.com", "role": "signer"}]}`
	if w := postOptimize(t, router, missing); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown analysis, got %d", w.Code)
	}
}

func TestHandlerOptimizeDefaultsUrgency(t *testing.T) {
	router := newTestRouter()

	body := `{"documentType": "nda", "parties": [{"id": "a", "email": "a@example.com", "role": "signer"}]}`
	w := postOptimize(t, router, body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with defaulted urgency, got %d: %s", w.Code, w.Body.String())
	}
}
