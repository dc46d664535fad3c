package handlers

import (
	"recondo/internal/app"
	"recondo/internal/handlers/middleware"
	"recondo/internal/logger"
	"recondo/internal/models"
	"recondo/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LocationHandler struct {
	Handler
	locationRepo repositories.LocationRepository
	app          app.App
}

func NewLocationHandler(app app.App, router fiber.Router) *LocationHandler {
	log := logger.New("handlers").File("location_handler")
	return &LocationHandler{
		locationRepo: app.Repos.Location,
		app:          app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *LocationHandler) Register() {
	locations := h.router.Group("/locations", h.middleware.RequireAuth(h.app.Services.OIDC))

	locations.Get("", h.listLocations)
	locations.Post("", h.createLocation)
	locations.Get("/:id", h.getLocation)
	locations.Put("/:id", h.updateLocation)
	locations.Delete("/:id", h.deleteLocation)
}

func (h *LocationHandler) listLocations(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listLocations")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	locations, err := h.locationRepo.List(c.UserContext(), user.DealershipID)
	if err != nil {
		_ = log.Err("Failed to list locations", err, "dealershipID", user.DealershipID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list locations",
		})
	}

	return c.JSON(fiber.Map{
		"locations": locations,
	})
}

func (h *LocationHandler) getLocation(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getLocation")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	locationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid location ID",
		})
	}

	location, err := h.locationRepo.GetByID(c.UserContext(), user.DealershipID, locationID)
	if err != nil {
		_ = log.Err("Failed to get location", err, "locationID", locationID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get location",
		})
	}
	if location == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Location not found",
		})
	}

	return c.JSON(fiber.Map{
		"location": location,
	})
}

func (h *LocationHandler) createLocation(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createLocation")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var location models.Location
	if err := c.BodyParser(&location); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if location.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}

	location.DealershipID = user.DealershipID

	if err := h.locationRepo.Create(c.UserContext(), &location); err != nil {
		_ = log.Err("Failed to create location", err, "dealershipID", user.DealershipID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create location",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"location": location,
	})
}

func (h *LocationHandler) updateLocation(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateLocation")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	locationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid location ID",
		})
	}

	location, err := h.locationRepo.GetByID(c.UserContext(), user.DealershipID, locationID)
	if err != nil {
		_ = log.Err("Failed to load location", err, "locationID", locationID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load location",
		})
	}
	if location == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Location not found",
		})
	}

	var req struct {
		Name     *string              `json:"name,omitempty"`
		Type     *models.LocationType `json:"type,omitempty"`
		Capacity *int                 `json:"capacity,omitempty"`
		IsActive *bool                `json:"isActive,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "locationID", locationID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name != nil {
		location.Name = *req.Name
	}
	if req.Type != nil {
		location.Type = *req.Type
	}
	if req.Capacity != nil {
		location.Capacity = *req.Capacity
	}
	if req.IsActive != nil {
		location.IsActive = *req.IsActive
	}

	if err := h.locationRepo.Update(c.UserContext(), location); err != nil {
		_ = log.Err("Failed to update location", err, "locationID", locationID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update location",
		})
	}

	return c.JSON(fiber.Map{
		"location": location,
	})
}

func (h *LocationHandler) deleteLocation(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteLocation")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	locationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid location ID",
		})
	}

	deleted, err := h.locationRepo.Delete(c.UserContext(), user.DealershipID, locationID)
	if err != nil {
		_ = log.Err("Failed to delete location", err, "locationID", locationID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete location",
		})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Location not found",
		})
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
