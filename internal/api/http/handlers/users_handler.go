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

// UsersHandler exposes signup, login and admin account endpoints.
type UsersHandler struct {
	auth      *service.AuthService
	users     *service.UserService
	validator *validation.Validator
	images    ImageStore
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, users *service.UserService, validator *validation.Validator, images ImageStore) *UsersHandler {
	return &UsersHandler{auth: authService, users: users, validator: validator, images: images}
}

func newAuthResponse(s *service.Session) dto.AuthResponse {
	return dto.AuthResponse{
		UserID:    s.User.ID,
		Name:      s.User.Name,
		Email:     s.User.Email,
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
	}
}

// Signup handles POST /api/users/signup.
func (h *UsersHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	image, err := saveImage(c, h.images)
	if err != nil {
		return err
	}
	req.Email = validation.NormalizeEmail(req.Email)
	if err := h.validator.Struct(&req); err != nil {
		return err
	}

	session, err := h.auth.Signup(c.UserContext(), req.Name, req.Email, req.Password, image)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(newAuthResponse(session))
}

// Login handles POST /api/users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	session, err := h.auth.Login(c.UserContext(), validation.NormalizeEmail(req.Email), req.Password, c.IP())
	if err != nil {
		return err
	}
	return c.JSON(newAuthResponse(session))
}

// Index handles GET /api/users.
func (h *UsersHandler) Index(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext(), c.QueryBool("new"))
	if err != nil {
		return err
	}
	return c.JSON(dto.Map(users, dto.NewUserResponse))
}

// Stats handles GET /api/users/stats.
func (h *UsersHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.users.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewMonthlySignupsResponse(stats))
}

// Find handles GET /api/users/find/:id.
func (h *UsersHandler) Find(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Update handles PATCH /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)

	var req dto.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	req.Email = validation.NormalizeEmail(req.Email)
	if err := h.validator.Struct(&req); err != nil {
		return err
	}

	user, err := h.users.Update(c.UserContext(), identity, c.Params("id"), func(u *domain.User) {
		u.Name = req.Name
		u.Email = req.Email
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Delete handles DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	if err := h.users.Delete(c.UserContext(), identity, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Deleted user"})
}
