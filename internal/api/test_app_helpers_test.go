package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/timesheet/internal/db"
	"github.com/terraincognita07/timesheet/internal/i18n"
	"github.com/terraincognita07/timesheet/internal/models"
	"github.com/terraincognita07/timesheet/internal/services"
	"gorm.io/gorm"
)

const testPassword = "StrongPass1"

// Monday 2024-03-11.
var testNow = time.Date(2024, time.March, 11, 10, 0, 0, 0, time.UTC)

type testApp struct {
	app      *fiber.App
	database *gorm.DB
	handler  *Handler
	toasts   *services.ToastHub
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "timesheet-api-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	i18nManager, err := i18n.NewManager("en", i18n.EmbeddedLocales())
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	toasts := services.NewToastHub(time.Hour, neverFiringScheduler)
	handler, err := NewHandler(database, HandlerConfig{
		SecretKey: "test-secret-key-with-enough-length-123",
		Location:  time.UTC,
		I18n:      i18nManager,
		Toasts:    toasts,
		Now:       func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	app.Use(handler.LanguageMiddleware)
	RegisterRoutes(app, handler)
	return &testApp{app: app, database: database, handler: handler, toasts: toasts}
}

func neverFiringScheduler(time.Duration, func()) func() bool {
	return func() bool { return true }
}

func (env *testApp) createUser(t *testing.T, email string, fmno string, roles models.RoleSet, mustChangePassword bool) models.User {
	t.Helper()

	hash, err := services.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		Email:              email,
		FMNO:               fmno,
		Roles:              roles,
		PasswordHash:       hash,
		MustChangePassword: mustChangePassword,
		CreatedAt:          testNow,
	}
	if err := db.NewUserRepository(env.database).Create(&user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func (env *testApp) createChargeCode(t *testing.T, code string, active bool) models.ChargeCode {
	t.Helper()

	record := models.ChargeCode{Code: code, Description: code + " work", IsActive: active}
	if err := db.NewChargeCodeRepository(env.database).Create(&record); err != nil {
		t.Fatalf("create charge code %s: %v", code, err)
	}
	return record
}

// login returns a Cookie header value carrying the auth token.
func (env *testApp) login(t *testing.T, email string) string {
	t.Helper()

	response, body := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": testPassword,
	})
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, response.StatusCode, body)
	}
	token := responseCookieValue(response.Cookies(), authCookieName)
	if token == "" {
		t.Fatalf("login %s: missing auth cookie", email)
	}
	return authCookieName + "=" + token
}

func (env *testApp) do(t *testing.T, method string, path string, cookie string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if cookie != "" {
		request.Header.Set("Cookie", cookie)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("%s %s read body failed: %v", method, path, err)
	}
	return response, raw
}

func responseCookieValue(cookies []*http.Cookie, name string) string {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

func decodeJSON(t *testing.T, raw []byte, target any) {
	t.Helper()
	if err := json.Unmarshal(raw, target); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
}

func readAPIError(t *testing.T, raw []byte) string {
	t.Helper()
	payload := map[string]any{}
	decodeJSON(t, raw, &payload)
	message, _ := payload["error"].(string)
	return message
}

func assertStatus(t *testing.T, response *http.Response, raw []byte, want int) {
	t.Helper()
	if response.StatusCode != want {
		t.Fatalf("expected status %d, got %d: %s", want, response.StatusCode, raw)
	}
}
