package handlers

import (
	"errors"

	"recondo/internal/app"
	"recondo/internal/controllers/inspections"
	"recondo/internal/handlers/middleware"
	"recondo/internal/logger"
	"recondo/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InspectionHandler struct {
	Handler
	data *inspections.DataController
	app  app.App
}

func NewInspectionHandler(app app.App, router fiber.Router) *InspectionHandler {
	log := logger.New("handlers").File("inspection_handler")
	return &InspectionHandler{
		data: app.Controllers.InspectionData,
		app:  app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *InspectionHandler) Register() {
	vehicles := h.router.Group("/vehicles", h.middleware.RequireAuth(h.app.Services.OIDC))

	vehicles.Get("/:id/inspection", h.getInspection)
	vehicles.Put("/:id/inspection", h.saveInspection)
	vehicles.Get("/:id/notes", h.getNotes)
	vehicles.Post("/:id/notes", h.addNote)
	vehicles.Get("/:id/checklist", h.getChecklist)

	checklists := h.router.Group("/checklists", h.middleware.RequireAuth(h.app.Services.OIDC))
	checklists.Get("", h.listChecklists)
}

func (h *InspectionHandler) vehicleID(c *fiber.Ctx) (uuid.UUID, bool) {
	vehicleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return vehicleID, true
}

func (h *InspectionHandler) getInspection(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getInspection")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	vehicleID, ok := h.vehicleID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid vehicle ID",
		})
	}

	doc, err := h.data.GetData(c.UserContext(), user.DealershipID, vehicleID)
	if err != nil {
		_ = log.Err("Failed to load inspection", err, "vehicleID", vehicleID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load inspection",
		})
	}

	return c.JSON(fiber.Map{
		"inspection": doc,
	})
}

// saveInspection persists the full inspection document. Rating synonyms in
// the payload are normalized to wire codes before anything is compared or
// stored, and any reconciliation notes come back with the saved document.
func (h *InspectionHandler) saveInspection(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("saveInspection")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	vehicleID, ok := h.vehicleID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid vehicle ID",
		})
	}

	var doc models.InspectionDocument
	if err := c.BodyParser(&doc); err != nil {
		log.Warn("Invalid request body", "error", err, "vehicleID", vehicleID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	saved, notes, err := h.data.SaveData(c.UserContext(), user.DealershipID, vehicleID, doc, user.AuditAuthor())
	if err != nil {
		_ = log.Err("Failed to save inspection", err, "vehicleID", vehicleID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save inspection",
		})
	}

	return c.JSON(fiber.Map{
		"inspection": saved,
		"teamNotes":  notes,
	})
}

func (h *InspectionHandler) getNotes(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getNotes")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	vehicleID, ok := h.vehicleID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid vehicle ID",
		})
	}

	notes, err := h.data.GetNotes(c.UserContext(), vehicleID)
	if err != nil {
		_ = log.Err("Failed to load notes", err, "vehicleID", vehicleID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load notes",
		})
	}

	return c.JSON(fiber.Map{
		"teamNotes": notes,
	})
}

func (h *InspectionHandler) addNote(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("addNote")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	vehicleID, ok := h.vehicleID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid vehicle ID",
		})
	}

	var req struct {
		Text     string `json:"text"`
		Category string `json:"category,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "vehicleID", vehicleID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	note, err := h.data.AddNote(c.UserContext(), user.DealershipID, vehicleID, req.Text, user.AuditAuthor(), req.Category)
	if err != nil {
		if errors.Is(err, inspections.ErrNoteTextRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		_ = log.Err("Failed to add note", err, "vehicleID", vehicleID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add note",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"teamNote": note,
	})
}

func (h *InspectionHandler) getChecklist(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getChecklist")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	vehicleID, ok := h.vehicleID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid vehicle ID",
		})
	}

	checklist, err := h.data.GetChecklist(c.UserContext(), user.DealershipID, vehicleID)
	if err != nil {
		_ = log.Err("Failed to load checklist", err, "vehicleID", vehicleID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load checklist",
		})
	}

	return c.JSON(fiber.Map{
		"checklist": checklist,
	})
}

// listChecklists powers the board view: one denormalized progress row per
// vehicle in the dealership.
func (h *InspectionHandler) listChecklists(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listChecklists")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	checklists, err := h.data.ListChecklists(c.UserContext(), user.DealershipID)
	if err != nil {
		_ = log.Err("Failed to list checklists", err, "dealershipID", user.DealershipID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list checklists",
		})
	}

	return c.JSON(fiber.Map{
		"checklists": checklists,
	})
}
