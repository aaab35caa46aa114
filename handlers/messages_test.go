package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	syncbridge "sonrisa/services/sync"
)

type echoEngine struct{}

func (echoEngine) HandleMessage(_ context.Context, from, body string) string {
	return "reply to " + from + ": " + body
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/messages", NewMessageHandler(echoEngine{}).Inbound)
	r.GET("/health", NewHealthHandler(syncbridge.NopBridge{}).Status)
	return r
}

func TestInboundMessage(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(`{"from":"111","body":"hola"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Reply != "reply to 111: hola" {
		t.Fatalf("unexpected reply %q", resp.Reply)
	}
}

func TestInboundMessageRejectsBadPayload(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(`{"from":"111"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing body, got %d", w.Code)
	}
}

func TestHealthReportsDegradedDatabase(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	var resp struct {
		Status        string `json:"status"`
		Database      string `json:"database"`
		SyncConnected bool   `json:"syncConnected"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Status != "ok" || resp.Database != "degraded" || resp.SyncConnected {
		t.Fatalf("unexpected health payload: %+v", resp)
	}
}
