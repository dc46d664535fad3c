package websockets

import (
	"context"
	"time"

	"recondo/internal/events"

	"github.com/google/uuid"
)

const AUTH_HANDSHAKE_TIMEOUT = 10 * time.Second

// startAuthTimeout disconnects clients that never complete the auth handshake.
func (c *Client) startAuthTimeout() {
	log := c.Manager.log.Function("startAuthTimeout")

	go func() {
		time.Sleep(AUTH_HANDSHAKE_TIMEOUT)
		if c.Status != STATUS_UNAUTHENTICATED {
			return
		}

		log.Warn("Client failed to authenticate within timeout, disconnecting",
			"clientID", c.ID,
			"timeout", AUTH_HANDSHAKE_TIMEOUT)

		authTimeout := Message{
			ID:        uuid.New().String(),
			Type:      events.AUTH_FAILURE,
			Channel:   "system",
			Action:    "authentication_timeout",
			Data:      map[string]any{"reason": "Authentication timeout"},
			Timestamp: time.Now(),
		}

		select {
		case c.send <- authTimeout:
			time.Sleep(100 * time.Millisecond)
		default:
		}

		if err := c.Connection.Close(); err != nil {
			log.Er("failed to close connection after auth timeout", err, "clientID", c.ID)
		}
	}()
}

// handleAuthResponse validates the ID token from the client and binds the
// connection to the matching user and dealership.
func (c *Client) handleAuthResponse(message Message) {
	log := c.Manager.log.Function("handleAuthResponse")

	if c.Status != STATUS_UNAUTHENTICATED {
		log.Warn("Auth response from already authenticated client", "clientID", c.ID)
		return
	}

	token, ok := message.Data["token"].(string)
	if !ok || token == "" {
		log.Warn("Invalid token in auth response", "clientID", c.ID)
		c.sendAuthFailure("Invalid token format")
		return
	}

	tokenInfo, err := c.Manager.oidcService.ValidateIDToken(context.Background(), token)
	if err != nil || !tokenInfo.Valid {
		log.Info("Websocket token validation failed", "clientID", c.ID)
		c.sendAuthFailure("Authentication failed")
		return
	}

	user, err := c.Manager.userRepo.GetByOIDCUserID(context.Background(), tokenInfo.UserID)
	if err != nil || user == nil {
		log.Info("Websocket user not found",
			"clientID", c.ID,
			"oidcUserID", tokenInfo.UserID)
		c.sendAuthFailure("User not found")
		return
	}

	if !user.IsActive {
		c.sendAuthFailure("User is deactivated")
		return
	}

	c.Status = STATUS_AUTHENTICATED
	c.UserID = user.ID
	c.DealershipID = user.DealershipID

	log.Info("Websocket client authenticated",
		"clientID", c.ID,
		"userID", user.ID,
		"dealershipID", user.DealershipID)

	authSuccess := Message{
		ID:        uuid.New().String(),
		Type:      events.AUTH_SUCCESS,
		Channel:   "system",
		Action:    "authenticated",
		UserID:    c.UserID.String(),
		Data:      map[string]any{"userId": c.UserID.String()},
		Timestamp: time.Now(),
	}

	c.send <- authSuccess
}

func (c *Client) sendAuthFailure(reason string) {
	log := c.Manager.log.Function("sendAuthFailure")

	authFailure := Message{
		ID:        uuid.New().String(),
		Type:      events.AUTH_FAILURE,
		Channel:   "system",
		Action:    "authentication_failed",
		Data:      map[string]any{"reason": reason},
		Timestamp: time.Now(),
	}

	c.send <- authFailure

	log.Info("Auth failure sent, closing connection", "clientID", c.ID, "reason", reason)

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = c.Connection.Close()
	}()
}

func (c *Client) handleUnauthenticatedMessage(message Message) {
	log := c.Manager.log.Function("handleUnauthenticatedMessage")

	log.Warn("Blocking message from unauthenticated client",
		"clientID", c.ID,
		"messageType", message.Type)

	authFailure := Message{
		ID:        uuid.New().String(),
		Type:      events.AUTH_FAILURE,
		Channel:   "system",
		Action:    "authentication_required",
		Data:      map[string]any{"reason": "Authentication required"},
		Timestamp: time.Now(),
	}
	c.send <- authFailure
}
