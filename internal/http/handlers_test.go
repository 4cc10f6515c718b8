package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"salud-chatbot/internal/core"
	"salud-chatbot/internal/logger"
	"salud-chatbot/internal/store"
	"salud-chatbot/pkg"
)

func newTestServer() *Server {
	svc := core.NewService(store.NewMemory(), nil, nil, logger.NewNop(), 0.6, time.Second)
	return NewServer(svc, logger.NewNop())
}

func postJSON(t *testing.T, srv *Server, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func startSession(t *testing.T, srv *Server) pkg.StartSessionResponse {
	t.Helper()
	rec := postJSON(t, srv, "/api/sessions", pkg.StartSessionRequest{Phone: "+57 300 123 4567", Name: "María"})
	if rec.Code != http.StatusOK {
		t.Fatalf("start session: want 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var resp pkg.StartSessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode session response: %v", err)
	}
	return resp
}

func TestStartSessionEndpoint(t *testing.T) {
	srv := newTestServer()
	resp := startSession(t, srv)
	if resp.User.Phone != "+57 300 123 4567" {
		t.Fatalf("Phone: want=%q got=%q", "+57 300 123 4567", resp.User.Phone)
	}
	if resp.Conversation.Status != pkg.StatusOpen {
		t.Fatalf("Status: want=%q got=%q", pkg.StatusOpen, resp.Conversation.Status)
	}
}

func TestStartSessionInvalidPhone(t *testing.T) {
	srv := newTestServer()
	rec := postJSON(t, srv, "/api/sessions", pkg.StartSessionRequest{Phone: "123"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want 400 got %d", rec.Code)
	}
}

func TestSubmitMessageFlow(t *testing.T) {
	srv := newTestServer()
	session := startSession(t, srv)

	rec := postJSON(t, srv, "/api/conversations/"+session.Conversation.ID+"/messages",
		pkg.ChatRequest{Content: "me duele el pecho"})
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: want 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var chat pkg.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &chat); err != nil {
		t.Fatalf("decode chat response: %v", err)
	}
	if chat.Triage.Level != pkg.LevelUrgent {
		t.Fatalf("Level: want=%q got=%q", pkg.LevelUrgent, chat.Triage.Level)
	}
	if !strings.Contains(chat.Reply, "ATENCIÓN URGENTE") {
		t.Fatalf("Reply missing urgent header: %q", chat.Reply)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/conversations/"+session.Conversation.ID+"/messages", nil)
	getRec := httptest.NewRecorder()
	srv.ServeHTTP(getRec, req)
	if getRec.Code != http.StatusOK {
		t.Fatalf("list messages: want 200 got %d", getRec.Code)
	}
	var messages []pkg.Message
	if err := json.Unmarshal(getRec.Body.Bytes(), &messages); err != nil {
		t.Fatalf("decode messages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("messages: want 2 got %d", len(messages))
	}
	if messages[0].Sender != pkg.SenderUser || messages[1].Sender != pkg.SenderBot {
		t.Fatalf("messages out of order: %+v", messages)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/conversations/"+session.Conversation.ID+"/triage", nil)
	triageRec := httptest.NewRecorder()
	srv.ServeHTTP(triageRec, req)
	var results []pkg.TriageResult
	if err := json.Unmarshal(triageRec.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode triage results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("triage results: want 1 got %d", len(results))
	}
}

func TestSubmitMessageEmptyContent(t *testing.T) {
	srv := newTestServer()
	session := startSession(t, srv)

	rec := postJSON(t, srv, "/api/conversations/"+session.Conversation.ID+"/messages",
		pkg.ChatRequest{Content: "  "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want 400 got %d", rec.Code)
	}
}

func TestSubmitMessageUnknownConversation(t *testing.T) {
	srv := newTestServer()
	rec := postJSON(t, srv, "/api/conversations/no-such-id/messages",
		pkg.ChatRequest{Content: "tengo fiebre"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: want 404 got %d", rec.Code)
	}
}

func TestCloseConversationEndpoint(t *testing.T) {
	srv := newTestServer()
	session := startSession(t, srv)

	req := httptest.NewRequest(http.MethodPost, "/api/conversations/"+session.Conversation.ID+"/close", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: want 204 got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/conversations/no-such-id/close", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: want 404 got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want 200 got %d", rec.Code)
	}
}
