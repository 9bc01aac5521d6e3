package api

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/terraincognita07/timesheet/internal/services"
)

const (
	toastStreamBuffer       = 16
	toastStreamPingInterval = 30 * time.Second
)

func (handler *Handler) ListToasts(c *fiber.Ctx) error {
	return c.JSON(handler.sessionToasts(c).List())
}

func (handler *Handler) DismissToast(c *fiber.Ctx) error {
	if !handler.sessionToasts(c).Dismiss(c.Params("id")) {
		return handler.apiError(c, fiber.StatusNotFound, "error.toast_not_found")
	}
	return c.JSON(fiber.Map{"success": true})
}

// ToastStreamUpgrade only lets websocket handshakes through to StreamToasts.
func (handler *Handler) ToastStreamUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// StreamToasts replays the visible toasts as added events, then forwards every change
// until the client disconnects or the session queue closes.
func (handler *Handler) StreamToasts(conn *websocket.Conn) {
	sessionID, _ := conn.Locals(contextSessionKey).(string)
	queue := handler.toasts.Queue(sessionID)
	events, unsubscribe := queue.Subscribe(toastStreamBuffer)
	defer unsubscribe()

	for _, toast := range queue.List() {
		if err := conn.WriteJSON(services.ToastEvent{Kind: services.ToastAdded, Toast: toast}); err != nil {
			return
		}
	}

	disconnected := make(chan struct{})
	go func() {
		defer close(disconnected)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(toastStreamPingInterval)
	defer ticker.Stop()
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("toast stream: write failed: %v", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-disconnected:
			return
		}
	}
}
