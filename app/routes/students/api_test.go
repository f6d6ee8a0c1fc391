package students

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"career-compass/app/config"
	"career-compass/app/models"
	"career-compass/app/routes/auth"
	"career-compass/app/storage/memory"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func setupStudentsTest(t *testing.T) (*fiber.App, *memory.Store, string) {
	t.Helper()
	config.Load()
	store := memory.NewStore()
	app := fiber.New()
	SetupStudentsRoutes(app, store)

	token, err := auth.GenerateSessionToken("owner-1", "alice")
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}
	return app, store, token
}

func request(t *testing.T, app *fiber.App, method, target string, body interface{}, token string) (int, []byte) {
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
	return resp.StatusCode, raw
}

func TestCreateStudentAPI(t *testing.T) {
	app, store, token := setupStudentsTest(t)

	body := map[string]string{
		"name": "A", "standard": "5", "email": "a@x.com", "totalFees": "1000",
	}
	status, raw := request(t, app, "POST", "/students", body, token)
	if status != 201 {
		t.Fatalf("expected 201, got %d (%s)", status, raw)
	}

	var created models.StudentFee
	if err := json.Unmarshal(raw, &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !created.FeesPaid.IsZero() {
		t.Errorf("expected feesPaid 0, got %s", created.FeesPaid)
	}
	if created.PaymentMode != "Pending" {
		t.Errorf("expected paymentMode Pending, got %q", created.PaymentMode)
	}
	if created.OwnerID != "owner-1" {
		t.Errorf("expected owner-1, got %q", created.OwnerID)
	}
	if !created.TotalFees.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected totalFees 1000, got %s", created.TotalFees)
	}

	stored, err := store.ListStudentsByOwner(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("ListStudentsByOwner failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored entry, got %d", len(stored))
	}

	t.Run("missing fields", func(t *testing.T) {
		status, _ := request(t, app, "POST", "/students", map[string]string{"name": "B"}, token)
		if status != 400 {
			t.Errorf("expected 400, got %d", status)
		}
	})

	t.Run("negative totalFees", func(t *testing.T) {
		bad := map[string]string{
			"name": "B", "standard": "5", "email": "b@x.com", "totalFees": "-10",
		}
		status, _ := request(t, app, "POST", "/students", bad, token)
		if status != 400 {
			t.Errorf("expected 400, got %d", status)
		}
	})

	t.Run("no token", func(t *testing.T) {
		status, _ := request(t, app, "POST", "/students", body, "")
		if status != 401 {
			t.Errorf("expected 401, got %d", status)
		}
	})
}

func TestGetStudentsAPI(t *testing.T) {
	app, store, token := setupStudentsTest(t)

	mine := &models.StudentFee{Name: "A", Standard: "5", Email: "a@x.com", TotalFees: decimal.NewFromInt(100), OwnerID: "owner-1"}
	theirs := &models.StudentFee{Name: "B", Standard: "6", Email: "b@x.com", TotalFees: decimal.NewFromInt(100), OwnerID: "owner-2"}
	for _, s := range []*models.StudentFee{mine, theirs} {
		if err := store.CreateStudent(context.Background(), s); err != nil {
			t.Fatalf("CreateStudent failed: %v", err)
		}
	}

	status, raw := request(t, app, "GET", "/students", nil, token)
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var listed []models.StudentFee
	if err := json.Unmarshal(raw, &listed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(listed) != 1 || listed[0].Name != "A" {
		t.Errorf("expected only the caller's student, got %s", raw)
	}

	t.Run("empty list is an array", func(t *testing.T) {
		otherToken, err := auth.GenerateSessionToken("owner-3", "carol")
		if err != nil {
			t.Fatalf("GenerateSessionToken failed: %v", err)
		}
		status, raw := request(t, app, "GET", "/students", nil, otherToken)
		if status != 200 {
			t.Fatalf("expected 200, got %d", status)
		}
		if string(raw) != "[]" {
			t.Errorf("expected empty JSON array, got %s", raw)
		}
	})
}
