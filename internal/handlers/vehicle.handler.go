package handlers

import (
	"recondo/internal/app"
	vehicleController "recondo/internal/controllers/vehicles"
	"recondo/internal/handlers/middleware"
	"recondo/internal/logger"
	"recondo/internal/models"
	"recondo/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type VehicleHandler struct {
	Handler
	vehicleController vehicleController.VehicleControllerInterface
	app               app.App
}

func NewVehicleHandler(app app.App, router fiber.Router) *VehicleHandler {
	log := logger.New("handlers").File("vehicle_handler")
	return &VehicleHandler{
		vehicleController: app.Controllers.Vehicle,
		app:               app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *VehicleHandler) Register() {
	vehicles := h.router.Group("/vehicles", h.middleware.RequireAuth(h.app.Services.OIDC))

	vehicles.Get("", h.listVehicles)
	vehicles.Post("", h.createVehicle)
	vehicles.Get("/:id", h.getVehicle)
	vehicles.Put("/:id", h.updateVehicle)
	vehicles.Delete("/:id", h.deleteVehicle)
}

func (h *VehicleHandler) listVehicles(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listVehicles")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	filter := repositories.VehicleFilter{
		Status: models.VehicleStatus(c.Query("status")),
		Search: c.Query("search"),
	}
	if locationParam := c.Query("locationId"); locationParam != "" {
		locationID, err := uuid.Parse(locationParam)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid location ID",
			})
		}
		filter.LocationID = &locationID
	}

	vehicles, err := h.vehicleController.List(c.UserContext(), user.DealershipID, filter)
	if err != nil {
		_ = log.Err("Failed to list vehicles", err, "dealershipID", user.DealershipID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list vehicles",
		})
	}

	return c.JSON(fiber.Map{
		"vehicles": vehicles,
	})
}

func (h *VehicleHandler) getVehicle(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getVehicle")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	vehicleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid vehicle ID",
		})
	}

	vehicle, err := h.vehicleController.Get(c.UserContext(), user.DealershipID, vehicleID)
	if err != nil {
		_ = log.Err("Failed to get vehicle", err, "vehicleID", vehicleID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get vehicle",
		})
	}
	if vehicle == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Vehicle not found",
		})
	}

	return c.JSON(fiber.Map{
		"vehicle": vehicle,
	})
}

func (h *VehicleHandler) createVehicle(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createVehicle")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var vehicle models.Vehicle
	if err := c.BodyParser(&vehicle); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	vehicle.DealershipID = user.DealershipID

	created, err := h.vehicleController.Create(c.UserContext(), &vehicle)
	if err != nil {
		if err.Error() == "stock number is required" || err.Error() == "location does not exist" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		_ = log.Err("Failed to create vehicle", err, "dealershipID", user.DealershipID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create vehicle",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"vehicle": created,
	})
}

func (h *VehicleHandler) updateVehicle(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateVehicle")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	vehicleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid vehicle ID",
		})
	}

	var req models.VehicleUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "vehicleID", vehicleID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	vehicle, err := h.vehicleController.Update(c.UserContext(), user.DealershipID, vehicleID, req)
	if err != nil {
		if err.Error() == "location does not exist" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		_ = log.Err("Failed to update vehicle", err, "vehicleID", vehicleID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update vehicle",
		})
	}
	if vehicle == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Vehicle not found",
		})
	}

	return c.JSON(fiber.Map{
		"vehicle": vehicle,
	})
}

func (h *VehicleHandler) deleteVehicle(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteVehicle")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	vehicleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid vehicle ID",
		})
	}

	deleted, err := h.vehicleController.Delete(c.UserContext(), user.DealershipID, vehicleID)
	if err != nil {
		_ = log.Err("Failed to delete vehicle", err, "vehicleID", vehicleID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete vehicle",
		})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Vehicle not found",
		})
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
