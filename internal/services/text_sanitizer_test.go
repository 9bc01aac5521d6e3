package services

import (
	"errors"
	"testing"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "plain", raw: "  Jane Doe ", want: "Jane Doe"},
		{name: "ampersand", raw: "R&D team", want: "R&D team"},
		{name: "encoded ampersand", raw: "R&amp;D team", want: "R&D team"},
		{name: "comparison", raw: "hours < 8", want: "hours < 8"},
		{name: "empty", raw: "   ", want: ""},
		{name: "tag", raw: "<b>Jane</b>", wantErr: ErrTextContainsMarkup},
		{name: "angle bracket word", raw: "R&D <dev> team", wantErr: ErrTextContainsMarkup},
		{name: "encoded script", raw: "&lt;script&gt;alert(1)&lt;/script&gt;", wantErr: ErrTextContainsMarkup},
		{name: "encoded image", raw: "&lt;img src=x onerror=alert(1)&gt;", wantErr: ErrTextContainsMarkup},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PlainText(tc.raw)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("PlainText(%q) error = %v, want %v", tc.raw, err, tc.wantErr)
				}
				if got != "" {
					t.Fatalf("expected no text on error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("PlainText(%q): %v", tc.raw, err)
			}
			if got != tc.want {
				t.Fatalf("PlainText(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}
