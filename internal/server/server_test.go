package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventbuddy/backend/internal/auth"
	"github.com/eventbuddy/backend/internal/storage/sqlite"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "eventbuddy-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	return New(store, authenticator, jwtManager).Router([]string{"*"})
}

// do sends a JSON request and decodes the JSON response body into out, when
// out is non-nil.
func do(t *testing.T, router *gin.Engine, method, path, token string, body, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if out != nil && w.Code < 300 {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
		}
	}
	return w
}

func register(t *testing.T, router *gin.Engine, login string) string {
	t.Helper()

	var resp struct {
		Token string `json:"token"`
	}
	w := do(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"login":        login,
		"display_name": "User " + login,
		"password":     "correct-horse",
	}, &resp)
	if w.Code != http.StatusCreated {
		t.Fatalf("Register %s returned %d: %s", login, w.Code, w.Body.String())
	}
	return resp.Token
}

func TestServer_Auth(t *testing.T) {
	router := newTestRouter(t)

	t.Run("register and login", func(t *testing.T) {
		register(t, router, "alice")

		var resp struct {
			Token string `json:"token"`
			User  struct {
				Login string `json:"login"`
			} `json:"user"`
		}
		w := do(t, router, http.MethodPost, "/auth/login", "", map[string]string{
			"login":    "alice",
			"password": "correct-horse",
		}, &resp)
		if w.Code != http.StatusOK {
			t.Fatalf("Login returned %d: %s", w.Code, w.Body.String())
		}
		if resp.Token == "" {
			t.Error("Expected a session token")
		}
		if resp.User.Login != "alice" {
			t.Errorf("Expected alice, got %q", resp.User.Login)
		}
	})

	t.Run("duplicate login rejected", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/auth/register", "", map[string]string{
			"login":        "alice",
			"display_name": "Another Alice",
			"password":     "correct-horse",
		}, nil)
		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d", w.Code)
		}
	})

	t.Run("short password rejected", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/auth/register", "", map[string]string{
			"login":        "bob",
			"display_name": "Bob",
			"password":     "short",
		}, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/auth/login", "", map[string]string{
			"login":    "alice",
			"password": "wrong-password",
		}, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("protected route without token", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/events", "", nil, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("health is open", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/health", "", nil, nil)
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}
	})
}

// TestServer_EventFlow walks the whole lifecycle over HTTP: create an event,
// build the roster, claim and cost a purchase, allocate, finalize and settle
// the resulting debt, then complete the event.
func TestServer_EventFlow(t *testing.T) {
	router := newTestRouter(t)

	alice := register(t, router, "alice")
	bob := register(t, router, "bob")
	carol := register(t, router, "carol")

	// Alice creates the event.
	var event EventResponse
	w := do(t, router, http.MethodPost, "/events", alice, map[string]any{
		"name": "Lake Trip",
		"date": time.Now().Add(24 * time.Hour).Unix(),
	}, &event)
	if w.Code != http.StatusCreated {
		t.Fatalf("Create event returned %d: %s", w.Code, w.Body.String())
	}
	base := "/events/" + event.ID

	// Bob requests to join and alice admits him.
	if w := do(t, router, http.MethodPost, base+"/join", bob, nil, nil); w.Code != http.StatusCreated {
		t.Fatalf("Join returned %d: %s", w.Code, w.Body.String())
	}
	if w := do(t, router, http.MethodGet, base+"/purchases", bob, nil, nil); w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for pending member, got %d", w.Code)
	}
	if w := do(t, router, http.MethodPost, base+"/members/bob/admit", alice, nil, nil); w.Code != http.StatusOK {
		t.Fatalf("Admit returned %d: %s", w.Code, w.Body.String())
	}

	// Carol is added directly.
	if w := do(t, router, http.MethodPost, base+"/members", alice, map[string]any{
		"logins": []string{"carol"},
	}, nil); w.Code != http.StatusCreated {
		t.Fatalf("Add members returned %d: %s", w.Code, w.Body.String())
	}

	// Alice creates a purchase; bob claims it and records the cost.
	var purchase ItemResponse
	if w := do(t, router, http.MethodPost, base+"/purchases", alice, map[string]any{
		"name": "Groceries",
	}, &purchase); w.Code != http.StatusCreated {
		t.Fatalf("Create purchase returned %d: %s", w.Code, w.Body.String())
	}
	if w := do(t, router, http.MethodPost, base+"/purchases/"+purchase.ID+"/claim", bob, nil, nil); w.Code != http.StatusOK {
		t.Fatalf("Claim returned %d: %s", w.Code, w.Body.String())
	}
	if w := do(t, router, http.MethodPost, base+"/purchases/"+purchase.ID+"/claim", carol, nil, nil); w.Code != http.StatusConflict {
		t.Fatalf("Expected 409 on second claim, got %d", w.Code)
	}
	if w := do(t, router, http.MethodPost, base+"/purchases/"+purchase.ID+"/cost", bob, map[string]any{
		"cost_cents": 9000,
	}, nil); w.Code != http.StatusOK {
		t.Fatalf("Set cost returned %d: %s", w.Code, w.Body.String())
	}

	// All three share the purchase bob fronted: alice and carol owe him
	// 4500 cents each.
	if w := do(t, router, http.MethodPost, base+"/purchases/"+purchase.ID+"/allocations", alice, map[string]any{
		"logins": []string{"alice", "bob", "carol"},
	}, nil); w.Code != http.StatusNoContent {
		t.Fatalf("Allocate returned %d: %s", w.Code, w.Body.String())
	}

	var finalized struct {
		Debts []DebtResponse `json:"debts"`
	}
	if w := do(t, router, http.MethodPost, base+"/finalize", alice, nil, &finalized); w.Code != http.StatusCreated {
		t.Fatalf("Finalize returned %d: %s", w.Code, w.Body.String())
	}
	if len(finalized.Debts) != 2 {
		t.Fatalf("Expected 2 debts, got %d", len(finalized.Debts))
	}
	var aliceDebt DebtResponse
	for _, d := range finalized.Debts {
		if d.AmountCents != 4500 {
			t.Errorf("Expected 4500 cents, got %d", d.AmountCents)
		}
		if d.RecipientLogin != "bob" {
			t.Errorf("Expected bob as recipient, got %s", d.RecipientLogin)
		}
		if d.PayerLogin == "alice" {
			aliceDebt = d
		}
	}
	if aliceDebt.ID == "" {
		t.Fatal("Expected a debt owed by alice")
	}

	// Alice pays, bob confirms.
	if w := do(t, router, http.MethodPost, "/debts/"+aliceDebt.ID+"/paid", alice, nil, nil); w.Code != http.StatusOK {
		t.Fatalf("Mark paid returned %d: %s", w.Code, w.Body.String())
	}
	if w := do(t, router, http.MethodPost, "/debts/"+aliceDebt.ID+"/received", bob, nil, nil); w.Code != http.StatusOK {
		t.Fatalf("Mark received returned %d: %s", w.Code, w.Body.String())
	}

	// Move the date back and complete the event. Everything is frozen after.
	if w := do(t, router, http.MethodPatch, base, alice, map[string]any{
		"date": time.Now().Add(-time.Hour).Unix(),
	}, nil); w.Code != http.StatusOK {
		t.Fatalf("Patch returned %d: %s", w.Code, w.Body.String())
	}
	if w := do(t, router, http.MethodPost, base+"/complete", bob, nil, nil); w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for non-creator complete, got %d", w.Code)
	}
	if w := do(t, router, http.MethodPost, base+"/complete", alice, nil, nil); w.Code != http.StatusOK {
		t.Fatalf("Complete returned %d: %s", w.Code, w.Body.String())
	}
	if w := do(t, router, http.MethodPost, base+"/stuffs", alice, map[string]any{
		"name": "Cooler",
	}, nil); w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 on completed event, got %d", w.Code)
	}
}
