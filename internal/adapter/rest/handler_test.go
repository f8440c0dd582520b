package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"storepilot/internal/llm"
	"storepilot/internal/model"
	"storepilot/internal/shopify"
	"storepilot/internal/shopify/shopifytest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAgent struct {
	reply *model.ChatReply
	err   error
	calls int
	last  model.ChatRequest
}

func (s *stubAgent) Name() string { return "stub" }

func (s *stubAgent) Chat(_ context.Context, req model.ChatRequest) (*model.ChatReply, error) {
	s.calls++
	s.last = req
	if req.Message == nil {
		return nil, model.Invalid("Message is required")
	}
	return s.reply, s.err
}

func newTestAdapter(a *stubAgent, exec *shopifytest.Executor) http.Handler {
	return NewAdapter("0", a, shopify.NewService(exec), nil).Router()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(t, newTestAdapter(&stubAgent{}, shopifytest.New(`{}`)), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"healthy","service":"AI Agent"}`, w.Body.String())
	require.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newTestAdapter(&stubAgent{}, shopifytest.New(`{}`))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestChat(t *testing.T) {
	reply := &model.ChatReply{
		Response: "You have 3 products.",
		ConversationHistory: []llm.Message{
			{Role: llm.RoleUser, Content: "How many products do I have?"},
			{Role: llm.RoleAssistant, Content: "You have 3 products."},
		},
	}
	agent := &stubAgent{reply: reply}
	h := newTestAdapter(agent, shopifytest.New(`{}`))

	w := do(t, h, http.MethodPost, "/chat", `{"message":"How many products do I have?","history":[]}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{
		"response": "You have 3 products.",
		"conversation_history": [
			{"role":"user","content":"How many products do I have?"},
			{"role":"assistant","content":"You have 3 products."}
		]
	}`, w.Body.String())
	require.Equal(t, "How many products do I have?", *agent.last.Message)
}

func TestChatErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		agentErr   error
		wantStatus int
		wantBody   string
	}{
		{name: "no body", body: "", wantStatus: http.StatusBadRequest, wantBody: `{"error":"Message is required"}`},
		{name: "no message", body: `{"history":[]}`, wantStatus: http.StatusBadRequest, wantBody: `{"error":"Message is required"}`},
		{name: "bad json", body: `{"message":`, wantStatus: http.StatusBadRequest},
		{name: "bad history", body: `{"message":"hi"}`, agentErr: model.Invalid("invalid history: x"), wantStatus: http.StatusBadRequest, wantBody: `{"error":"invalid history: x"}`},
		{
			name:       "model failure",
			body:       `{"message":"hi"}`,
			agentErr:   &llm.APIError{Provider: "openai", StatusCode: 401, Message: "bad key"},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"openai API error (401): bad key"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestAdapter(&stubAgent{err: tt.agentErr}, shopifytest.New(`{}`))
			w := do(t, h, http.MethodPost, "/chat", tt.body)
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				require.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestStoreRoutes(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		wantOp   string
		wantVars map[string]any
	}{
		{
			name:     "products default limit",
			method:   http.MethodGet,
			target:   "/products",
			wantOp:   "getProducts",
			wantVars: map[string]any{"first": 10, "query": ""},
		},
		{
			name:     "products non integer limit",
			method:   http.MethodGet,
			target:   "/products?limit=abc&searchTitle=hat",
			wantOp:   "getProducts",
			wantVars: map[string]any{"first": 10, "query": "title:*hat*"},
		},
		{
			name:     "product bare id",
			method:   http.MethodGet,
			target:   "/product/42",
			wantOp:   "getProduct",
			wantVars: map[string]any{"id": "gid://shopify/Product/42"},
		},
		{
			name:     "product encoded gid",
			method:   http.MethodGet,
			target:   "/product/gid:%2F%2Fshopify%2FProduct%2F42",
			wantOp:   "getProduct",
			wantVars: map[string]any{"id": "gid://shopify/Product/42"},
		},
		{
			name:     "orders closed",
			method:   http.MethodGet,
			target:   "/orders?limit=5&status=closed",
			wantOp:   "getOrders",
			wantVars: map[string]any{"first": 5, "query": "status:closed"},
		},
		{
			name:     "customers",
			method:   http.MethodGet,
			target:   "/customers?searchQuery=ada",
			wantOp:   "getCustomers",
			wantVars: map[string]any{"first": 10, "query": "ada"},
		},
		{
			name:   "create product",
			method: http.MethodPost,
			target: "/product",
			body:   `{"title":"Mug","vendor":"Acme","tags":["kitchen"],"status":"ACTIVE"}`,
			wantOp: "productCreate",
			wantVars: map[string]any{"input": shopify.ProductInput{
				Title:  "Mug",
				Vendor: "Acme",
				Tags:   []string{"kitchen"},
				Status: "ACTIVE",
			}},
		},
		{
			name:   "store info",
			method: http.MethodGet,
			target: "/store-info",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := shopifytest.New(`{"data":{"ok":true}}`)
			w := do(t, newTestAdapter(&stubAgent{}, exec), tt.method, tt.target, tt.body)

			require.Equal(t, http.StatusOK, w.Code)
			require.JSONEq(t, `{"data":{"ok":true}}`, w.Body.String())
			require.Len(t, exec.Calls(), 1)
			require.Equal(t, tt.wantOp, exec.Last().Operation())
			require.Equal(t, tt.wantVars, exec.Last().Variables)
		})
	}
}

func TestCreateProductRequiresTitle(t *testing.T) {
	for _, body := range []string{"", `{}`, `{"title":"  ","vendor":"Acme"}`} {
		exec := shopifytest.New(`{}`)
		w := do(t, newTestAdapter(&stubAgent{}, exec), http.MethodPost, "/product", body)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.JSONEq(t, `{"error":"Product title is required"}`, w.Body.String())
		require.Empty(t, exec.Calls())
	}
}

func TestBadRequestsSkipBackend(t *testing.T) {
	tests := []struct {
		method, target, body string
	}{
		{http.MethodGet, "/orders?status=shipped", ""},
		{http.MethodGet, "/product/gid:%2F%2Fshopify%2FOrder%2F1", ""},
		{http.MethodPost, "/product", `{"title":"Mug","status":"LIVE"}`},
	}
	for _, tt := range tests {
		exec := shopifytest.New(`{}`)
		w := do(t, newTestAdapter(&stubAgent{}, exec), tt.method, tt.target, tt.body)
		require.Equal(t, http.StatusBadRequest, w.Code, tt.target)
		require.Empty(t, exec.Calls())
	}
}

func TestBackendErrorPassthrough(t *testing.T) {
	exec := shopifytest.New("")
	exec.Err = &shopify.TransportError{StatusCode: http.StatusUnauthorized, Body: "[API] Invalid API key or access token"}
	w := do(t, newTestAdapter(&stubAgent{}, exec), http.MethodGet, "/store-info", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body["error"], "Invalid API key")
}
