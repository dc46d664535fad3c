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

type ContactHandler struct {
	Handler
	contactRepo repositories.ContactRepository
	app         app.App
}

func NewContactHandler(app app.App, router fiber.Router) *ContactHandler {
	log := logger.New("handlers").File("contact_handler")
	return &ContactHandler{
		contactRepo: app.Repos.Contact,
		app:         app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ContactHandler) Register() {
	contacts := h.router.Group("/contacts", h.middleware.RequireAuth(h.app.Services.OIDC))

	contacts.Get("", h.listContacts)
	contacts.Post("", h.createContact)
	contacts.Get("/:id", h.getContact)
	contacts.Put("/:id", h.updateContact)
	contacts.Delete("/:id", h.deleteContact)
}

func (h *ContactHandler) listContacts(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listContacts")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	contacts, err := h.contactRepo.List(c.UserContext(), user.DealershipID, c.Query("category"))
	if err != nil {
		_ = log.Err("Failed to list contacts", err, "dealershipID", user.DealershipID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list contacts",
		})
	}

	return c.JSON(fiber.Map{
		"contacts": contacts,
	})
}

func (h *ContactHandler) getContact(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getContact")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	contactID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid contact ID",
		})
	}

	contact, err := h.contactRepo.GetByID(c.UserContext(), user.DealershipID, contactID)
	if err != nil {
		_ = log.Err("Failed to get contact", err, "contactID", contactID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get contact",
		})
	}
	if contact == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Contact not found",
		})
	}

	return c.JSON(fiber.Map{
		"contact": contact,
	})
}

func (h *ContactHandler) createContact(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createContact")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var contact models.Contact
	if err := c.BodyParser(&contact); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if contact.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}

	contact.DealershipID = user.DealershipID

	if err := h.contactRepo.Create(c.UserContext(), &contact); err != nil {
		_ = log.Err("Failed to create contact", err, "dealershipID", user.DealershipID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create contact",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"contact": contact,
	})
}

func (h *ContactHandler) updateContact(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateContact")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	contactID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid contact ID",
		})
	}

	contact, err := h.contactRepo.GetByID(c.UserContext(), user.DealershipID, contactID)
	if err != nil {
		_ = log.Err("Failed to load contact", err, "contactID", contactID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load contact",
		})
	}
	if contact == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Contact not found",
		})
	}

	var req struct {
		Name     *string `json:"name,omitempty"`
		Company  *string `json:"company,omitempty"`
		Category *string `json:"category,omitempty"`
		Phone    *string `json:"phone,omitempty"`
		Email    *string `json:"email,omitempty"`
		Notes    *string `json:"notes,omitempty"`
		IsActive *bool   `json:"isActive,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "contactID", contactID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name != nil {
		contact.Name = *req.Name
	}
	if req.Company != nil {
		contact.Company = *req.Company
	}
	if req.Category != nil {
		contact.Category = *req.Category
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}
	if req.Email != nil {
		contact.Email = *req.Email
	}
	if req.Notes != nil {
		contact.Notes = *req.Notes
	}
	if req.IsActive != nil {
		contact.IsActive = *req.IsActive
	}

	if err := h.contactRepo.Update(c.UserContext(), contact); err != nil {
		_ = log.Err("Failed to update contact", err, "contactID", contactID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update contact",
		})
	}

	return c.JSON(fiber.Map{
		"contact": contact,
	})
}

func (h *ContactHandler) deleteContact(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteContact")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	contactID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid contact ID",
		})
	}

	deleted, err := h.contactRepo.Delete(c.UserContext(), user.DealershipID, contactID)
	if err != nil {
		_ = log.Err("Failed to delete contact", err, "contactID", contactID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete contact",
		})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Contact not found",
		})
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
