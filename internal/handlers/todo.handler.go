package handlers

import (
	"time"

	"recondo/internal/app"
	"recondo/internal/handlers/middleware"
	"recondo/internal/logger"
	"recondo/internal/models"
	"recondo/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TodoHandler struct {
	Handler
	todoRepo repositories.TodoRepository
	app      app.App
}

func NewTodoHandler(app app.App, router fiber.Router) *TodoHandler {
	log := logger.New("handlers").File("todo_handler")
	return &TodoHandler{
		todoRepo: app.Repos.Todo,
		app:      app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *TodoHandler) Register() {
	todos := h.router.Group("/todos", h.middleware.RequireAuth(h.app.Services.OIDC))

	todos.Get("", h.listTodos)
	todos.Post("", h.createTodo)
	todos.Put("/:id", h.updateTodo)
	todos.Delete("/:id", h.deleteTodo)
}

func (h *TodoHandler) listTodos(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listTodos")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var vehicleID *uuid.UUID
	if vehicleParam := c.Query("vehicleId"); vehicleParam != "" {
		parsed, err := uuid.Parse(vehicleParam)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid vehicle ID",
			})
		}
		vehicleID = &parsed
	}

	includeDone := c.QueryBool("includeDone", false)

	todos, err := h.todoRepo.List(c.UserContext(), user.DealershipID, vehicleID, includeDone)
	if err != nil {
		_ = log.Err("Failed to list todos", err, "dealershipID", user.DealershipID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list todos",
		})
	}

	return c.JSON(fiber.Map{
		"todos": todos,
	})
}

func (h *TodoHandler) createTodo(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createTodo")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var todo models.Todo
	if err := c.BodyParser(&todo); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if todo.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}

	todo.DealershipID = user.DealershipID

	if err := h.todoRepo.Create(c.UserContext(), &todo); err != nil {
		_ = log.Err("Failed to create todo", err, "dealershipID", user.DealershipID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create todo",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"todo": todo,
	})
}

func (h *TodoHandler) updateTodo(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateTodo")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	todoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid todo ID",
		})
	}

	todo, err := h.todoRepo.GetByID(c.UserContext(), user.DealershipID, todoID)
	if err != nil {
		_ = log.Err("Failed to load todo", err, "todoID", todoID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load todo",
		})
	}
	if todo == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Todo not found",
		})
	}

	var req struct {
		Title       *string    `json:"title,omitempty"`
		Description *string    `json:"description,omitempty"`
		VehicleID   *uuid.UUID `json:"vehicleId,omitempty"`
		AssignedTo  *uuid.UUID `json:"assignedTo,omitempty"`
		DueAt       *time.Time `json:"dueAt,omitempty"`
		IsDone      *bool      `json:"isDone,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err, "todoID", todoID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title != nil {
		todo.Title = *req.Title
	}
	if req.Description != nil {
		todo.Description = *req.Description
	}
	if req.VehicleID != nil {
		todo.VehicleID = req.VehicleID
	}
	if req.AssignedTo != nil {
		todo.AssignedTo = req.AssignedTo
	}
	if req.DueAt != nil {
		todo.DueAt = req.DueAt
	}
	if req.IsDone != nil && *req.IsDone != todo.IsDone {
		todo.IsDone = *req.IsDone
		if todo.IsDone {
			now := time.Now()
			todo.CompletedAt = &now
		} else {
			todo.CompletedAt = nil
		}
	}

	if err := h.todoRepo.Update(c.UserContext(), todo); err != nil {
		_ = log.Err("Failed to update todo", err, "todoID", todoID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update todo",
		})
	}

	return c.JSON(fiber.Map{
		"todo": todo,
	})
}

func (h *TodoHandler) deleteTodo(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteTodo")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	todoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid todo ID",
		})
	}

	deleted, err := h.todoRepo.Delete(c.UserContext(), user.DealershipID, todoID)
	if err != nil {
		_ = log.Err("Failed to delete todo", err, "todoID", todoID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete todo",
		})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Todo not found",
		})
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
