package http

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mr-tron/base58"

	"github.com/layer-3/siws/adapters/identity"
	"github.com/layer-3/siws/adapters/store"
	"github.com/layer-3/siws/core"
	"github.com/layer-3/siws/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	identityStore := identity.NewMemoryStore(identity.TokenConfig{
		Secret: "test-secret",
		TTL:    time.Hour,
		Issuer: "test",
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authService := service.NewAuthService(logger, store.NewMemoryStore(), identityStore, nil, service.Config{
		Domain:   "app.example.com",
		URI:      "https://app.example.com/siws",
		NonceTTL: time.Minute,
	})

	return SetupRouter(authService, identityStore, NewCookieTransport(false))
}

func newWallet(t *testing.T) (string, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return base58.Encode(pub), priv
}

func postJSON(r *gin.Engine, path string, payload map[string]any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func startChallenge(t *testing.T, r *gin.Engine, address string) (nonce, domain, uri string) {
	t.Helper()
	w := postJSON(r, "/siws/start", map[string]any{"address": address})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Nonce  string `json:"nonce"`
		Domain string `json:"domain"`
		URI    string `json:"uri"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Nonce == "" || resp.Domain == "" || resp.URI == "" {
		t.Fatalf("incomplete challenge response: %s", w.Body.String())
	}
	return resp.Nonce, resp.Domain, resp.URI
}

func TestStartRejectsMalformedAddress(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(r, "/siws/start", map[string]any{"address": "short"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSignInFlow(t *testing.T) {
	r := newTestRouter(t)
	address, priv := newWallet(t)

	nonce, domain, uri := startChallenge(t, r, address)

	message := core.BuildMessage(core.MessageFields{
		Domain:   domain,
		Address:  address,
		URI:      uri,
		Nonce:    nonce,
		IssuedAt: "2024-01-01T00:00:00Z",
	})
	signature := base58.Encode(ed25519.Sign(priv, []byte(message)))

	w := postJSON(r, "/siws/verify", map[string]any{
		"address":   address,
		"message":   message,
		"signature": signature,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		User    string `json:"user"`
		Session struct {
			ID    string `json:"id"`
			Token string `json:"token"`
		} `json:"session"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.User == "" || resp.Session.Token == "" {
		t.Fatalf("incomplete verify response: %s", w.Body.String())
	}

	var sessionCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == SessionCookieName {
			sessionCookie = cookie
		}
	}
	if sessionCookie == nil {
		t.Fatalf("expected %s cookie to be set", SessionCookieName)
	}
	if !sessionCookie.HttpOnly {
		t.Fatalf("expected session cookie to be HttpOnly")
	}
	if sessionCookie.Value != resp.Session.Token {
		t.Fatalf("cookie does not carry the session token")
	}

	// Replay of the identical verify call must fail
	w = postJSON(r, "/siws/verify", map[string]any{
		"address":   address,
		"message":   message,
		"signature": signature,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on replay, got %d: %s", w.Code, w.Body.String())
	}

	// The cookie authenticates the protected surface
	meReq := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	meReq.AddCookie(sessionCookie)
	meW := httptest.NewRecorder()
	r.ServeHTTP(meW, meReq)
	if meW.Code != http.StatusOK {
		t.Fatalf("expected 200 from /api/me, got %d: %s", meW.Code, meW.Body.String())
	}
	var me struct {
		ID       string `json:"id"`
		Verified bool   `json:"verified"`
	}
	if err := json.Unmarshal(meW.Body.Bytes(), &me); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if me.ID != resp.User {
		t.Fatalf("expected /api/me to return user %s, got %s", resp.User, me.ID)
	}
	if !me.Verified {
		t.Fatalf("expected provisioned user to be verified")
	}
}

func TestVerifyRejectsWrongKeypair(t *testing.T) {
	r := newTestRouter(t)
	address, _ := newWallet(t)
	_, otherPriv := newWallet(t)

	nonce, domain, uri := startChallenge(t, r, address)

	message := core.BuildMessage(core.MessageFields{
		Domain:   domain,
		Address:  address,
		URI:      uri,
		Nonce:    nonce,
		IssuedAt: "2024-01-01T00:00:00Z",
	})
	signature := base58.Encode(ed25519.Sign(otherPriv, []byte(message)))

	w := postJSON(r, "/siws/verify", map[string]any{
		"address":   address,
		"message":   message,
		"signature": signature,
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestVerifyRejectsEmptyInputs(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(r, "/siws/verify", map[string]any{
		"address":   "",
		"message":   "",
		"signature": "",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMeRequiresSession(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "forged-token"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged cookie, got %d: %s", w.Code, w.Body.String())
	}
}
