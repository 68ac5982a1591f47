package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/winkingcatstudios/video-streaming-backend/internal/api/dto"
	"github.com/winkingcatstudios/video-streaming-backend/internal/auth"
	"github.com/winkingcatstudios/video-streaming-backend/internal/domain"
	"github.com/winkingcatstudios/video-streaming-backend/internal/service"
	"github.com/winkingcatstudios/video-streaming-backend/internal/validation"
)

// ListsHandler exposes list endpoints.
type ListsHandler struct {
	lists     *service.ListService
	validator *validation.Validator
}

// NewListsHandler constructs handler.
func NewListsHandler(lists *service.ListService, validator *validation.Validator) *ListsHandler {
	return &ListsHandler{lists: lists, validator: validator}
}

// Index handles GET /api/lists.
func (h *ListsHandler) Index(c *fiber.Ctx) error {
	lists, err := h.lists.List(c.UserContext(), c.QueryBool("new"))
	if err != nil {
		return err
	}
	return c.JSON(dto.Map(lists, dto.NewListResponse))
}

// Find handles GET /api/lists/find/:id.
func (h *ListsHandler) Find(c *fiber.Ctx) error {
	list, err := h.lists.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewListResponse(list))
}

// Random handles GET /api/lists/random.
func (h *ListsHandler) Random(c *fiber.Ctx) error {
	list, err := h.lists.Random(c.UserContext(), domain.RandomFilter{
		Type:  c.Query("type"),
		Genre: c.Query("genre"),
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewListResponse(list))
}

// ByCreator handles GET /api/lists/user/:uid.
func (h *ListsHandler) ByCreator(c *fiber.Ctx) error {
	lists, err := h.lists.ListByCreator(c.UserContext(), c.Params("uid"))
	if err != nil {
		return err
	}
	return c.JSON(dto.Map(lists, dto.NewListResponse))
}

// Create handles POST /api/lists. The caller becomes the creator.
func (h *ListsHandler) Create(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)

	var req dto.ListRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.validator.Struct(&req); err != nil {
		return err
	}

	list := &domain.List{CreatorID: identity.UserID}
	req.Apply(list)
	if err := h.lists.Create(c.UserContext(), identity, list); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewListResponse(list))
}

// Update handles PATCH /api/lists/:id.
func (h *ListsHandler) Update(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)

	var req dto.ListRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.validator.Struct(&req); err != nil {
		return err
	}

	list, err := h.lists.Update(c.UserContext(), identity, c.Params("id"), req.Apply)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewListResponse(list))
}

// Delete handles DELETE /api/lists/:id.
func (h *ListsHandler) Delete(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	if err := h.lists.Delete(c.UserContext(), identity, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Deleted list"})
}
