package handlers

import (
	"recondo/internal/app"
	"recondo/internal/handlers/middleware"
	"recondo/internal/logger"
	"recondo/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	Handler
	userRepo repositories.UserRepository
	app      app.App
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	log := logger.New("handlers").File("user_handler")
	return &UserHandler{
		userRepo: app.Repos.User,
		app:      app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users", h.middleware.RequireAuth(h.app.Services.OIDC))

	users.Get("/me", h.getCurrentUser)
	users.Get("", h.listUsers)

	admin := users.Group("/", h.middleware.RequireAdmin())
	admin.Put("/:id", h.updateUser)
}

func (h *UserHandler) getCurrentUser(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	return c.JSON(fiber.Map{
		"user": user.ToProfile(),
	})
}

// listUsers returns the team roster for the caller's dealership.
func (h *UserHandler) listUsers(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listUsers")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	teamUsers, err := h.userRepo.ListByDealership(c.UserContext(), user.DealershipID)
	if err != nil {
		_ = log.Err("Failed to list users", err, "dealershipID", user.DealershipID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list users",
		})
	}

	profiles := make([]any, 0, len(teamUsers))
	for _, teamUser := range teamUsers {
		profiles = append(profiles, teamUser.ToProfile())
	}

	return c.JSON(fiber.Map{
		"users": profiles,
	})
}

type userUpdateRequest struct {
	DisplayName *string `json:"displayName,omitempty"`
	Role        *string `json:"role,omitempty"`
	IsAdmin     *bool   `json:"isAdmin,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// updateUser lets an admin change role, admin, and active flags for a user
// in their own dealership.
func (h *UserHandler) updateUser(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateUser")

	admin := middleware.GetUser(c)
	if admin == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	userIDParam := c.Params("id")
	userID, err := uuid.Parse(userIDParam)
	if err != nil {
		log.Warn("Invalid user ID", "id", userIDParam)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var req userUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		_ = log.Err("Failed to load user", err, "userID", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load user",
		})
	}
	if user == nil || user.DealershipID != admin.DealershipID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.userRepo.Update(c.UserContext(), user); err != nil {
		_ = log.Err("Failed to update user", err, "userID", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update user",
		})
	}

	return c.JSON(fiber.Map{
		"user": user.ToProfile(),
	})
}
