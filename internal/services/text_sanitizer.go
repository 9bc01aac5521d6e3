package services

import (
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var ErrTextContainsMarkup = errors.New("text contains markup")

var plainTextPolicy = bluemonday.StrictPolicy()

// PlainText trims free text and rejects it when it carries HTML markup,
// including markup written as entities. Entities in plain text are decoded.
func PlainText(raw string) (string, error) {
	text := strings.TrimSpace(html.UnescapeString(raw))
	if text == "" {
		return "", nil
	}
	if html.UnescapeString(plainTextPolicy.Sanitize(text)) != text {
		return "", ErrTextContainsMarkup
	}
	return text, nil
}
