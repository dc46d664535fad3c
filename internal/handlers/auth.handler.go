package handlers

import (
	"recondo/internal/app"
	authController "recondo/internal/controllers/auth"
	"recondo/internal/handlers/middleware"
	"recondo/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	authController authController.AuthControllerInterface
	app            app.App
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	log := logger.New("handlers").File("auth_handler")
	return &AuthHandler{
		authController: app.Controllers.Auth,
		app:            app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")

	auth.Get("/config", h.getAuthConfig)
	auth.Get("/login-url", h.getLoginURL)
	auth.Post("/callback", h.handleCallback)

	protected := auth.Group("/", h.middleware.RequireAuth(h.app.Services.OIDC))
	protected.Get("/me", h.getCurrentUser)
	protected.Post("/logout", h.logout)
}

// getAuthConfig returns the OIDC configuration the client needs to start the
// login flow.
func (h *AuthHandler) getAuthConfig(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getAuthConfig")

	config, err := h.authController.GetAuthConfig()
	if err != nil {
		_ = log.Err("Failed to load auth config", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load auth config",
		})
	}

	return c.JSON(config)
}

// getLoginURL builds a PKCE authorization URL for the hosted login page.
func (h *AuthHandler) getLoginURL(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getLoginURL")

	if !h.authController.IsConfigured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Authentication not configured",
		})
	}

	state := c.Query("state", "default-state")
	redirectURI := c.Query("redirect_uri")
	codeChallenge := c.Query("code_challenge")
	nonce := c.Query("nonce")

	if redirectURI == "" {
		log.Info("missing redirect_uri parameter")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "redirect_uri parameter is required",
		})
	}

	response, err := h.authController.GenerateAuthURL(state, redirectURI, codeChallenge, nonce)
	if err != nil {
		_ = log.Err("Failed to generate authorization URL", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate authorization URL",
		})
	}

	return c.JSON(response)
}

// handleCallback exchanges the authorization code for tokens and provisions
// or refreshes the local user record.
func (h *AuthHandler) handleCallback(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("handleCallback")

	var req authController.OIDCCallbackRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Code == "" || req.RedirectURI == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "code and redirect_uri are required",
		})
	}

	result, err := h.authController.HandleOIDCCallback(c.UserContext(), req)
	if err != nil {
		_ = log.Err("OIDC callback failed", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication failed",
		})
	}

	return c.JSON(result)
}

// getCurrentUser returns the authenticated user's profile.
func (h *AuthHandler) getCurrentUser(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getCurrentUser")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	response, err := h.authController.GetCurrentUserInfo(c.UserContext(), user.OIDCUserID)
	if err != nil {
		_ = log.Err("Failed to load current user", err, "userID", user.ID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load current user",
		})
	}

	return c.JSON(response)
}

// logout revokes tokens where the provider supports it and returns the
// provider's end-session URL.
func (h *AuthHandler) logout(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("logout")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req authController.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.authController.LogoutUser(c.UserContext(), req, user.OIDCUserID)
	if err != nil {
		_ = log.Err("Logout failed", err, "userID", user.ID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Logout failed",
		})
	}

	return c.JSON(response)
}
