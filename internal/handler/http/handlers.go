// Package httpx maps the REST surface onto the task service. Identity is
// trusted from the X-User-ID header; authentication itself happens
// upstream of this service.
package httpx

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"example.com/taskhub/internal/domain"
	"example.com/taskhub/internal/query"
	"example.com/taskhub/internal/repository"
	"example.com/taskhub/internal/usecase"
)

const userIDKey = "userID"

type Handler struct {
	svc   *usecase.TaskService
	users repository.UserRepository
}

func New(svc *usecase.TaskService, users repository.UserRepository) *Handler {
	return &Handler{svc: svc, users: users}
}

// Register mounts all routes on the app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/healthz", h.health)
	app.Post("/api/users", h.createUser)

	api := app.Group("/api/tasks", requireUser)
	api.Get("/", h.list)
	api.Post("/", h.create)
	api.Get("/stats", h.stats)
	api.Get("/:id", h.get)
	api.Put("/:id", h.update)
	api.Delete("/:id", h.delete)
	api.Post("/:id/comments", h.addComment)
}

// requireUser trusts the identity the transport was given. No header, no
// access.
func requireUser(c *fiber.Ctx) error {
	userID := c.Get("X-User-ID")
	if userID == "" {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "missing X-User-ID header",
		})
	}
	c.Locals(userIDKey, userID)
	return c.Next()
}

func currentUser(c *fiber.Ctx) string {
	userID, _ := c.Locals(userIDKey).(string)
	return userID
}

func (h *Handler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// createUser registers a display reference for hydration. Credentials are
// not this service's business.
func (h *Handler) createUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, domain.NewValidationError("body", "is not valid JSON"))
	}
	if req.Name == "" {
		return h.fail(c, domain.NewValidationError("name", "is required"))
	}
	user, err := h.users.CreateUser(c.Context(), domain.User{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": user})
}

type pagination struct {
	Next *query.PageRef `json:"next,omitempty"`
	Prev *query.PageRef `json:"prev,omitempty"`
}

func (h *Handler) list(c *fiber.Ctx) error {
	filter := query.Filter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
	}
	srt := query.DefaultSort()
	if by, ord := c.Query("sortBy"), c.Query("sortOrder"); by != "" || ord != "" {
		srt = query.Sort{Field: by, Order: ord}
	}
	page, err := parsePage(c)
	if err != nil {
		return h.fail(c, err)
	}

	res, err := h.svc.Query(c.Context(), currentUser(c), filter, srt, page)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"count":      res.Meta.Count,
		"total":      res.Meta.Total,
		"pagination": pagination{Next: res.Meta.Next, Prev: res.Meta.Prev},
		"data":       res.Items,
	})
}

func (h *Handler) get(c *fiber.Ctx) error {
	view, err := h.svc.Get(c.Context(), currentUser(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": view})
}

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        []string   `json:"tags"`
	AssignedTo  string     `json:"assignedTo"`
}

func (h *Handler) create(c *fiber.Ctx) error {
	var req createTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, domain.NewValidationError("body", "is not valid JSON"))
	}
	view, err := h.svc.Create(c.Context(), currentUser(c), usecase.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": view})
}

type updateTaskRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Status       *string    `json:"status"`
	Priority     *string    `json:"priority"`
	DueDate      *time.Time `json:"dueDate"`
	ClearDueDate bool       `json:"clearDueDate"`
	Tags         *[]string  `json:"tags"`
	AssignedTo   *string    `json:"assignedTo"`
}

func (h *Handler) update(c *fiber.Ctx) error {
	var req updateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, domain.NewValidationError("body", "is not valid JSON"))
	}
	view, err := h.svc.Update(c.Context(), currentUser(c), c.Params("id"), usecase.UpdateInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
		Tags:         req.Tags,
		AssignedTo:   req.AssignedTo,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": view})
}

func (h *Handler) delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), currentUser(c), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

type addCommentRequest struct {
	Text string `json:"text"`
}

func (h *Handler) addComment(c *fiber.Ctx) error {
	var req addCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, domain.NewValidationError("body", "is not valid JSON"))
	}
	view, err := h.svc.AddComment(c.Context(), currentUser(c), c.Params("id"), req.Text)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": view})
}

func (h *Handler) stats(c *fiber.Ctx) error {
	stats, err := h.svc.Stats(c.Context(), currentUser(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": stats})
}

// parsePage maps the raw page/limit parameters, defaulting to page 1 with
// 10 items. Non-numeric input is a validation failure, not a default.
func parsePage(c *fiber.Ctx) (query.Page, error) {
	page := query.DefaultPageSpec()
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return query.Page{}, domain.NewValidationError("page", "must be an integer")
		}
		page.Number = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return query.Page{}, domain.NewValidationError("limit", "must be an integer")
		}
		page.Limit = n
	}
	return page, nil
}

// fail translates the error taxonomy to status codes. 404 means the id
// does not exist, 403 means it exists but the caller has no access; the
// message wording stays generic either way.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var v *domain.ValidationError
	switch {
	case errors.As(err, &v):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid request",
			"fields":  v.Fields,
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "task not found",
		})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(http.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "not authorized for this task",
		})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(http.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "task was modified concurrently, retry the request",
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "internal error",
		})
	}
}
