package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"career-compass/app/config"
	"career-compass/app/services"
	"career-compass/app/storage/memory"

	"github.com/gofiber/fiber/v2"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []services.Email
}

func (f *fakeMailer) Send(ctx context.Context, msg services.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func setupAuthTest(t *testing.T) (*fiber.App, *memory.Store, *fakeMailer) {
	t.Helper()
	config.Load()
	store := memory.NewStore()
	mailer := &fakeMailer{}
	app := fiber.New()
	SetupAuthRoutes(app, store, mailer)
	return app, store, mailer
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}, token string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	var decoded map[string]interface{}
	if len(raw) > 0 && json.Valid(raw) {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	} else {
		decoded = map[string]interface{}{"_raw": string(raw)}
	}
	return resp.StatusCode, decoded
}

func TestRegisterAPI(t *testing.T) {
	app, store, mailer := setupAuthTest(t)

	body := map[string]string{
		"username": "alice", "password": "s3cret", "email": "alice@x.com", "role": "admin",
	}
	status, resp := doJSON(t, app, "POST", "/register", body, "")
	if status != 201 {
		t.Fatalf("expected 201, got %d (%v)", status, resp)
	}

	user, err := store.GetUserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if user.Verified {
		t.Error("new user must start unverified")
	}
	if user.Password == "s3cret" {
		t.Error("password stored in plaintext")
	}

	// Verification mail goes out on a goroutine.
	deadline := time.Now().Add(2 * time.Second)
	for mailer.sentCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if mailer.sentCount() != 1 {
		t.Fatalf("expected 1 verification mail, got %d", mailer.sentCount())
	}
	if !strings.Contains(mailer.sent[0].HTML, "/verify-email?token=") {
		t.Error("verification mail missing link")
	}

	t.Run("duplicate username", func(t *testing.T) {
		status, resp := doJSON(t, app, "POST", "/register", body, "")
		if status != 400 {
			t.Errorf("expected 400, got %d (%v)", status, resp)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		status, _ := doJSON(t, app, "POST", "/register", map[string]string{"username": "bob"}, "")
		if status != 400 {
			t.Errorf("expected 400, got %d", status)
		}
	})
}

func TestVerifyEmailAPI(t *testing.T) {
	app, store, _ := setupAuthTest(t)

	doJSON(t, app, "POST", "/register", map[string]string{
		"username": "alice", "password": "s3cret", "email": "alice@x.com",
	}, "")

	token, err := GenerateVerificationToken("alice@x.com")
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	status, resp := doJSON(t, app, "GET", "/verify-email?token="+token, nil, "")
	if status != 200 {
		t.Fatalf("expected 200, got %d (%v)", status, resp)
	}
	user, err := store.GetUserByEmail(context.Background(), "alice@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if !user.Verified {
		t.Error("user not verified after following link")
	}

	t.Run("idempotent", func(t *testing.T) {
		status, resp := doJSON(t, app, "GET", "/verify-email?token="+token, nil, "")
		if status != 200 {
			t.Errorf("expected 200, got %d", status)
		}
		if !strings.Contains(resp["_raw"].(string), "already verified") {
			t.Errorf("expected already-verified message, got %v", resp["_raw"])
		}
	})

	t.Run("bad token", func(t *testing.T) {
		status, _ := doJSON(t, app, "GET", "/verify-email?token=garbage", nil, "")
		if status != 400 {
			t.Errorf("expected 400, got %d", status)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		unknown, _ := GenerateVerificationToken("nobody@x.com")
		status, _ := doJSON(t, app, "GET", "/verify-email?token="+unknown, nil, "")
		if status != 404 {
			t.Errorf("expected 404, got %d", status)
		}
	})
}

func TestLoginAPI(t *testing.T) {
	app, store, _ := setupAuthTest(t)

	doJSON(t, app, "POST", "/register", map[string]string{
		"username": "alice", "password": "s3cret", "email": "alice@x.com", "role": "teacher",
	}, "")

	t.Run("unverified", func(t *testing.T) {
		status, _ := doJSON(t, app, "POST", "/login", map[string]string{
			"username": "alice", "password": "s3cret",
		}, "")
		if status != 403 {
			t.Errorf("expected 403, got %d", status)
		}
	})

	if err := store.MarkUserVerified(context.Background(), "alice@x.com"); err != nil {
		t.Fatalf("MarkUserVerified failed: %v", err)
	}

	t.Run("wrong password", func(t *testing.T) {
		status, _ := doJSON(t, app, "POST", "/login", map[string]string{
			"username": "alice", "password": "nope",
		}, "")
		if status != 401 {
			t.Errorf("expected 401, got %d", status)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		status, _ := doJSON(t, app, "POST", "/login", map[string]string{
			"username": "nobody", "password": "s3cret",
		}, "")
		if status != 401 {
			t.Errorf("expected 401, got %d", status)
		}
	})

	t.Run("success", func(t *testing.T) {
		status, resp := doJSON(t, app, "POST", "/login", map[string]string{
			"username": "alice", "password": "s3cret",
		}, "")
		if status != 200 {
			t.Fatalf("expected 200, got %d (%v)", status, resp)
		}
		token, _ := resp["token"].(string)
		if token == "" {
			t.Fatal("missing token in response")
		}
		if resp["role"] != "teacher" {
			t.Errorf("expected role teacher, got %v", resp["role"])
		}

		claims, err := ValidateSessionToken(token)
		if err != nil {
			t.Fatalf("issued token invalid: %v", err)
		}
		if claims.Username != "alice" {
			t.Errorf("expected username alice in claims, got %q", claims.Username)
		}
	})
}

func TestValidateTokenAPI(t *testing.T) {
	app, _, _ := setupAuthTest(t)

	t.Run("missing token", func(t *testing.T) {
		status, resp := doJSON(t, app, "GET", "/validate-token", nil, "")
		if status != 401 {
			t.Errorf("expected 401, got %d", status)
		}
		if resp["valid"] != false {
			t.Errorf("expected valid=false, got %v", resp["valid"])
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		status, resp := doJSON(t, app, "GET", "/validate-token", nil, "garbage")
		if status != 403 {
			t.Errorf("expected 403, got %d", status)
		}
		if resp["valid"] != false {
			t.Errorf("expected valid=false, got %v", resp["valid"])
		}
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := GenerateSessionToken("user-1", "alice")
		if err != nil {
			t.Fatalf("GenerateSessionToken failed: %v", err)
		}
		status, resp := doJSON(t, app, "GET", "/validate-token", nil, token)
		if status != 200 {
			t.Fatalf("expected 200, got %d", status)
		}
		if resp["valid"] != true {
			t.Errorf("expected valid=true, got %v", resp["valid"])
		}
	})
}
