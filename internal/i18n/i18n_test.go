package i18n

import (
	"testing"
	"testing/fstest"
)

func newTestManager(t *testing.T, defaultLanguage string) *Manager {
	t.Helper()
	manager, err := NewManager(defaultLanguage, EmbeddedLocales())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return manager
}

func TestDetectFromAcceptLanguage(t *testing.T) {
	manager := newTestManager(t, "en")

	testCases := map[string]string{
		"":                        "en",
		"ru-RU,ru;q=0.9,en;q=0.8": "ru",
		"de-DE,de;q=0.9":          "en",
		"en-US,en;q=0.9":          "en",
		"fr;q=0.9, ru;q=0.5":      "ru",
	}
	for header, want := range testCases {
		if got := manager.DetectFromAcceptLanguage(header); got != want {
			t.Fatalf("DetectFromAcceptLanguage(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestNormalizeLanguage(t *testing.T) {
	manager := newTestManager(t, "ru")

	if manager.DefaultLanguage() != "ru" {
		t.Fatalf("expected default ru, got %q", manager.DefaultLanguage())
	}
	if got := manager.NormalizeLanguage("en_GB"); got != "en" {
		t.Fatalf("expected en, got %q", got)
	}
	if got := manager.NormalizeLanguage("xx"); got != "ru" {
		t.Fatalf("expected fallback ru, got %q", got)
	}
}

func TestTranslateFallsBackToDefaultThenKey(t *testing.T) {
	locales := fstest.MapFS{
		"en.json": {Data: []byte(`{"greeting":"Hello","only.en":"English only"}`)},
		"ru.json": {Data: []byte(`{"greeting":"Привет"}`)},
	}
	manager, err := NewManager("en", locales)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	if got := manager.Translate("ru", "greeting"); got != "Привет" {
		t.Fatalf("expected ru greeting, got %q", got)
	}
	if got := manager.Translate("ru", "only.en"); got != "English only" {
		t.Fatalf("expected fallback to en, got %q", got)
	}
	if got := manager.Translate("ru", "missing.key"); got != "missing.key" {
		t.Fatalf("expected key echo, got %q", got)
	}
}

func TestNewManagerRequiresBothLocales(t *testing.T) {
	locales := fstest.MapFS{"en.json": {Data: []byte(`{"a":"b"}`)}}
	if _, err := NewManager("en", locales); err == nil {
		t.Fatal("expected error without ru locale")
	}
}

func TestErrorMessagesKeepAPIWording(t *testing.T) {
	manager := newTestManager(t, "en")

	expected := map[string]string{
		"error.unauthorized":         "Unauthorized",
		"error.user_fields_required": "Email and FMNO are required",
		"error.user_exists":          "User with this email or FMNO already exists",
		"error.user_self_delete":     "Cannot delete your own account",
		"error.charge_code_in_use":   "Cannot delete charge code with existing time entries",
		"toast.title.success":        "Success",
		"toast.user_created":         "User created",
	}
	for key, want := range expected {
		if got := manager.Translate("en", key); got != want {
			t.Fatalf("Translate(%q) = %q, want %q", key, got, want)
		}
	}
}
