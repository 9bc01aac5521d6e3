package api

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	sealedCookieVersion = "v1"
	sealedCookieKeyInfo = "timesheet.sealed-cookie.v1"
)

var errInvalidSealedCookie = errors.New("invalid sealed cookie value")

// cookieSealer encrypts cookie values with AES-GCM. The cookie name is bound
// as additional data, so a value sealed for one cookie does not open as another.
type cookieSealer struct {
	aead cipher.AEAD
	rand io.Reader
}

func newCookieSealer(secretKey []byte) (*cookieSealer, error) {
	if len(secretKey) == 0 {
		return nil, errors.New("cookie sealer secret key is required")
	}

	key := sha256.Sum256(append([]byte(sealedCookieKeyInfo), secretKey...))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("init cookie cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init cookie aead: %w", err)
	}
	return &cookieSealer{aead: aead, rand: rand.Reader}, nil
}

// seal returns "v1.<base64url(nonce|ciphertext)>".
func (sealer *cookieSealer) seal(cookieName string, plaintext []byte) (string, error) {
	nonce := make([]byte, sealer.aead.NonceSize())
	if _, err := io.ReadFull(sealer.rand, nonce); err != nil {
		return "", fmt.Errorf("generate cookie nonce: %w", err)
	}

	sealed := sealer.aead.Seal(nonce, nonce, plaintext, []byte(cookieName))
	return sealedCookieVersion + "." + base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (sealer *cookieSealer) open(cookieName string, value string) ([]byte, error) {
	version, encoded, found := strings.Cut(strings.TrimSpace(value), ".")
	if !found || version != sealedCookieVersion || encoded == "" {
		return nil, errInvalidSealedCookie
	}
	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errInvalidSealedCookie
	}

	nonceSize := sealer.aead.NonceSize()
	if len(payload) <= nonceSize {
		return nil, errInvalidSealedCookie
	}
	plaintext, err := sealer.aead.Open(nil, payload[:nonceSize], payload[nonceSize:], []byte(cookieName))
	if err != nil {
		return nil, errInvalidSealedCookie
	}
	return plaintext, nil
}
