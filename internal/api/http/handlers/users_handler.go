package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hilltop/user-service/internal/api/dto"
	"github.com/hilltop/user-service/internal/domain"
	"github.com/hilltop/user-service/internal/service"
	"github.com/hilltop/user-service/pkg/util"
)

// UsersHandler exposes registration, login and token validation endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// Register handles POST /api/user.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewInvalidPayload()
	}

	userType, err := parseUserType(req.UserType)
	if err != nil {
		return err
	}

	if err := h.users.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		MobileNo: req.MobileNo,
		Password: req.Password,
		UserType: userType,
	}); err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Successfully added.",
	})
}

// Login handles POST /api/user/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.CredentialRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewInvalidPayload()
	}

	userType, err := parseUserType(req.UserType)
	if err != nil {
		return err
	}

	user, token, expiresAt, err := h.users.Login(c.UserContext(), service.LoginInput{
		MobileNo: req.MobileNo,
		Password: req.Password,
		UserType: userType,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Successfully logged in.",
		"data": dto.LoginResponse{
			UserID:   user.ID,
			UserType: string(user.UserType),
			Auth:     dto.AuthResponse{Token: token, ExpiresAt: expiresAt},
		},
	})
}

// ValidateToken handles POST /api/user/token/validate.
func (h *UsersHandler) ValidateToken(c *fiber.Ctx) error {
	var req dto.TokenValidateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewInvalidPayload()
	}
	if req.Token == "" {
		return util.NewInvalidPayload()
	}

	if err := h.users.VerifyToken(req.Token); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Token is valid.",
	})
}

// parseUserType maps the wire value onto the closed enum. An empty value is
// passed through so the flow reports it as a missing field; a non-empty
// unknown value is a malformed payload.
func parseUserType(raw string) (domain.UserType, error) {
	if raw == "" {
		return "", nil
	}
	userType, err := domain.ParseUserType(raw)
	if err != nil {
		return "", util.NewInvalidPayload()
	}
	return userType, nil
}
