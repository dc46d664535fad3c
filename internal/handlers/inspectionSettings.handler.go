package handlers

import (
	"recondo/internal/app"
	"recondo/internal/controllers/inspections"
	"recondo/internal/events"
	"recondo/internal/handlers/middleware"
	"recondo/internal/logger"
	"recondo/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InspectionSettingsHandler struct {
	Handler
	settings *inspections.SettingsController
	eventBus *events.EventBus
	app      app.App
}

func NewInspectionSettingsHandler(app app.App, router fiber.Router) *InspectionSettingsHandler {
	log := logger.New("handlers").File("inspection_settings_handler")
	return &InspectionSettingsHandler{
		settings: app.Controllers.InspectionSettings,
		eventBus: app.EventBus,
		app:      app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

// publishSettingsUpdate tells connected clients of the dealership to refetch
// settings. Delivery is best-effort.
func (h *InspectionSettingsHandler) publishSettingsUpdate(dealershipID uuid.UUID) {
	if h.eventBus == nil {
		return
	}
	err := h.eventBus.PublishDealershipUpdate(events.SETTINGS_UPDATED, dealershipID, map[string]any{
		"resource": "inspection-settings",
	})
	if err != nil {
		h.log.Function("publishSettingsUpdate").
			Warn("failed to publish settings event", "dealershipID", dealershipID, "error", err)
	}
}

func (h *InspectionSettingsHandler) Register() {
	settings := h.router.Group("/inspection-settings", h.middleware.RequireAuth(h.app.Services.OIDC))

	settings.Get("", h.getSettings)
	settings.Put("", h.saveSettings)
	settings.Get("/export", h.exportSettings)

	admin := settings.Group("/", h.middleware.RequireAdmin())
	admin.Post("/sections", h.addSection)
	admin.Put("/sections/:key", h.updateSection)
	admin.Delete("/sections/:key", h.deleteSection)
	admin.Post("/sections/:key/items", h.addItem)
	admin.Put("/sections/:key/items/reorder", h.reorderItems)
	admin.Put("/sections/:key/items/:itemId", h.updateItem)
	admin.Delete("/sections/:key/items/:itemId", h.deleteItem)
	admin.Put("/rating-labels/:key", h.updateRatingLabel)
	admin.Put("/global", h.updateGlobalSettings)
	admin.Put("/customer-pdf", h.updateCustomerPdfSettings)
	admin.Post("/import", h.importSettings)
	admin.Post("/reset", h.resetSettings)
}

func (h *InspectionSettingsHandler) getSettings(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	doc := h.settings.GetSettings(c.UserContext(), user.DealershipID)
	return c.JSON(fiber.Map{
		"settings": doc,
	})
}

func (h *InspectionSettingsHandler) saveSettings(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("saveSettings")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var doc models.SettingsDocument
	if err := c.BodyParser(&doc); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	saved, err := h.settings.SaveSettings(c.UserContext(), user.DealershipID, doc)
	if err != nil {
		_ = log.Err("Failed to save settings", err, "dealershipID", user.DealershipID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save settings",
		})
	}

	h.publishSettingsUpdate(user.DealershipID)
	return c.JSON(fiber.Map{
		"settings": saved,
	})
}

func (h *InspectionSettingsHandler) addSection(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("addSection")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var section models.InspectionSection
	if err := c.BodyParser(&section); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	doc, err := h.settings.AddSection(c.UserContext(), user.DealershipID, section)
	if err != nil {
		_ = log.Err("Failed to add section", err, "dealershipID", user.DealershipID)
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.publishSettingsUpdate(user.DealershipID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"settings": doc,
	})
}

func (h *InspectionSettingsHandler) updateSection(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateSection")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req models.SectionUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	section, err := h.settings.UpdateSection(c.UserContext(), user.DealershipID, c.Params("key"), req)
	if err != nil {
		_ = log.Err("Failed to update section", err, "sectionKey", c.Params("key"))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update section",
		})
	}
	if section == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Section not found",
		})
	}

	h.publishSettingsUpdate(user.DealershipID)
	return c.JSON(fiber.Map{
		"section": section,
	})
}

func (h *InspectionSettingsHandler) deleteSection(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteSection")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	deleted, err := h.settings.DeleteSection(c.UserContext(), user.DealershipID, c.Params("key"))
	if err != nil {
		_ = log.Err("Failed to delete section", err, "sectionKey", c.Params("key"))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete section",
		})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Section not found",
		})
	}

	h.publishSettingsUpdate(user.DealershipID)
	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *InspectionSettingsHandler) addItem(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("addItem")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var item models.InspectionItem
	if err := c.BodyParser(&item); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	added, err := h.settings.AddItem(c.UserContext(), user.DealershipID, c.Params("key"), item)
	if err != nil {
		_ = log.Err("Failed to add item", err, "sectionKey", c.Params("key"))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add item",
		})
	}
	if added == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Section not found",
		})
	}

	h.publishSettingsUpdate(user.DealershipID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"item": added,
	})
}

func (h *InspectionSettingsHandler) updateItem(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateItem")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req models.ItemUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	item, err := h.settings.UpdateItem(
		c.UserContext(),
		user.DealershipID,
		c.Params("key"),
		c.Params("itemId"),
		req,
	)
	if err != nil {
		_ = log.Err("Failed to update item", err, "itemID", c.Params("itemId"))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update item",
		})
	}
	if item == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Item not found",
		})
	}

	h.publishSettingsUpdate(user.DealershipID)
	return c.JSON(fiber.Map{
		"item": item,
	})
}

func (h *InspectionSettingsHandler) deleteItem(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteItem")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	deleted, err := h.settings.DeleteItem(
		c.UserContext(),
		user.DealershipID,
		c.Params("key"),
		c.Params("itemId"),
	)
	if err != nil {
		_ = log.Err("Failed to delete item", err, "itemID", c.Params("itemId"))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete item",
		})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Item not found",
		})
	}

	h.publishSettingsUpdate(user.DealershipID)
	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *InspectionSettingsHandler) reorderItems(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("reorderItems")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req struct {
		OrderedIDs []string `json:"orderedIds"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	reordered, err := h.settings.ReorderItems(c.UserContext(), user.DealershipID, c.Params("key"), req.OrderedIDs)
	if err != nil {
		_ = log.Err("Failed to reorder items", err, "sectionKey", c.Params("key"))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to reorder items",
		})
	}
	if !reordered {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Section not found",
		})
	}

	h.publishSettingsUpdate(user.DealershipID)
	return c.JSON(fiber.Map{
		"success": true,
	})
}

func (h *InspectionSettingsHandler) updateRatingLabel(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateRatingLabel")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req models.RatingLabelUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	label, err := h.settings.UpdateRatingLabel(c.UserContext(), user.DealershipID, c.Params("key"), req)
	if err != nil {
		_ = log.Err("Failed to update rating label", err, "ratingKey", c.Params("key"))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update rating label",
		})
	}
	if label == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Rating label not found",
		})
	}

	h.publishSettingsUpdate(user.DealershipID)
	return c.JSON(fiber.Map{
		"ratingLabel": label,
	})
}

func (h *InspectionSettingsHandler) updateGlobalSettings(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateGlobalSettings")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req models.GlobalSettingsUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updated, err := h.settings.UpdateGlobalSettings(c.UserContext(), user.DealershipID, req)
	if err != nil {
		_ = log.Err("Failed to update global settings", err, "dealershipID", user.DealershipID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update global settings",
		})
	}

	h.publishSettingsUpdate(user.DealershipID)
	return c.JSON(fiber.Map{
		"globalSettings": updated,
	})
}

func (h *InspectionSettingsHandler) updateCustomerPdfSettings(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateCustomerPdfSettings")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req models.CustomerPdfSettingsUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updated, err := h.settings.UpdateCustomerPdfSettings(c.UserContext(), user.DealershipID, req)
	if err != nil {
		_ = log.Err("Failed to update customer PDF settings", err, "dealershipID", user.DealershipID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update customer PDF settings",
		})
	}

	h.publishSettingsUpdate(user.DealershipID)
	return c.JSON(fiber.Map{
		"customerPdfSettings": updated,
	})
}

// exportSettings streams the merged document as a downloadable JSON file.
func (h *InspectionSettingsHandler) exportSettings(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("exportSettings")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	raw, err := h.settings.ExportSettings(c.UserContext(), user.DealershipID)
	if err != nil {
		_ = log.Err("Failed to export settings", err, "dealershipID", user.DealershipID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export settings",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="inspection-settings.json"`)
	return c.Send(raw)
}

func (h *InspectionSettingsHandler) importSettings(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("importSettings")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	doc, err := h.settings.ImportSettings(c.UserContext(), user.DealershipID, c.Body())
	if err != nil {
		log.Warn("Settings import rejected", "dealershipID", user.DealershipID, "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.publishSettingsUpdate(user.DealershipID)
	return c.JSON(fiber.Map{
		"settings": doc,
	})
}

func (h *InspectionSettingsHandler) resetSettings(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("resetSettings")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	doc, err := h.settings.ResetSettings(c.UserContext(), user.DealershipID)
	if err != nil {
		_ = log.Err("Failed to reset settings", err, "dealershipID", user.DealershipID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to reset settings",
		})
	}

	h.publishSettingsUpdate(user.DealershipID)
	return c.JSON(fiber.Map{
		"settings": doc,
	})
}
