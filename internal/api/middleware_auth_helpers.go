package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/timesheet/internal/models"
)

var (
	errMissingAuthCookie = errors.New("missing auth cookie")
	errInvalidAuthToken  = errors.New("invalid token")
)

// authClaims identify the user and the UI session that owns a toast queue.
type authClaims struct {
	UserID    string `json:"uid"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func (handler *Handler) parseAuthToken(raw string) (*authClaims, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return handler.secretKey, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(handler.now))
	if err != nil || !token.Valid {
		return nil, errInvalidAuthToken
	}
	if claims.UserID == "" || claims.SessionID == "" {
		return nil, errInvalidAuthToken
	}
	return claims, nil
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.User, *authClaims, error) {
	sealed := strings.TrimSpace(c.Cookies(authCookieName))
	if sealed == "" {
		return nil, nil, errMissingAuthCookie
	}
	rawToken, err := handler.cookies.open(authCookieName, sealed)
	if err != nil {
		return nil, nil, errInvalidAuthToken
	}

	claims, err := handler.parseAuthToken(string(rawToken))
	if err != nil {
		return nil, nil, err
	}

	user, err := handler.authService.FindByID(claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	return &user, claims, nil
}
