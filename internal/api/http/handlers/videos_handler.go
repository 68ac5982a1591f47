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

// VideosHandler exposes video endpoints.
type VideosHandler struct {
	videos    *service.CatalogService[*domain.Video]
	validator *validation.Validator
	images    ImageStore
}

// NewVideosHandler constructs handler.
func NewVideosHandler(videos *service.CatalogService[*domain.Video], validator *validation.Validator, images ImageStore) *VideosHandler {
	return &VideosHandler{videos: videos, validator: validator, images: images}
}

// Index handles GET /api/videos.
func (h *VideosHandler) Index(c *fiber.Ctx) error {
	videos, err := h.videos.List(c.UserContext(), c.QueryBool("new"))
	if err != nil {
		return err
	}
	return c.JSON(dto.Map(videos, dto.NewVideoResponse))
}

// Find handles GET /api/videos/find/:id.
func (h *VideosHandler) Find(c *fiber.Ctx) error {
	video, err := h.videos.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewVideoResponse(video))
}

// Random handles GET /api/videos/random. type=series samples series, anything
// else samples movies.
func (h *VideosHandler) Random(c *fiber.Ctx) error {
	isSeries := c.Query("type") == "series"
	video, err := h.videos.Random(c.UserContext(), domain.RandomFilter{
		Genre:    c.Query("genre"),
		IsSeries: &isSeries,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewVideoResponse(video))
}

// Create handles POST /api/videos with a JSON body or a multipart form
// carrying an optional image.
func (h *VideosHandler) Create(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)

	var req dto.VideoRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	image, err := saveImage(c, h.images)
	if err != nil {
		return err
	}
	if image != "" {
		req.Image = image
	}
	if err := h.validator.Struct(&req); err != nil {
		return err
	}

	video := &domain.Video{}
	req.Apply(video)
	if err := h.videos.Create(c.UserContext(), identity, video); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewVideoResponse(video))
}

// Update handles PATCH /api/videos/:id.
func (h *VideosHandler) Update(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)

	var req dto.VideoRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.validator.Struct(&req); err != nil {
		return err
	}

	video, err := h.videos.Update(c.UserContext(), identity, c.Params("id"), req.Apply)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewVideoResponse(video))
}

// Delete handles DELETE /api/videos/:id.
func (h *VideosHandler) Delete(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	if err := h.videos.Delete(c.UserContext(), identity, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Deleted video"})
}
