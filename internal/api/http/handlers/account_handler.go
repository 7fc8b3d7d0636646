package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dayplan/todo-service/internal/api/dto"
	"github.com/dayplan/todo-service/internal/auth"
	"github.com/dayplan/todo-service/internal/service"
	apperrors "github.com/dayplan/todo-service/pkg/util"
)

// AccountHandler exposes endpoints for the authenticated account.
type AccountHandler struct {
	accounts *service.AccountService
}

// NewAccountHandler constructs handler.
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accountService}
}

// GetProfile handles GET /account/profile.
func (h *AccountHandler) GetProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	user, err := h.accounts.GetProfile(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// UpdateProfile handles PUT /account/profile.
func (h *AccountHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	dob, err := parseOptionalDate(req.DateOfBirth)
	if err != nil {
		return apperrors.NewValidationError("date_of_birth must be YYYY-MM-DD", nil)
	}

	user, err := h.accounts.UpdateProfile(c.Context(), principal.User.ID, service.ProfileUpdateInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: dob,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// ChangePassword handles POST /account/password/change.
func (h *AccountHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("current and new password required", nil)
	}

	if err := h.accounts.ChangePassword(c.Context(), principal.User.ID, req.CurrentPassword, req.NewPassword, req.ConfirmNewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_changed"}})
}

// Deactivate handles POST /account/deactivate.
func (h *AccountHandler) Deactivate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.accounts.Deactivate(c.Context(), principal.User.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deactivated"}})
}

// Reactivate handles POST /account/reactivate. The account is resolved
// from credentials rather than a bearer token: a deactivated account can
// no longer pass the auth middleware.
func (h *AccountHandler) Reactivate(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, err := h.accounts.VerifyDisabledCredentials(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if err := h.accounts.Reactivate(c.Context(), user.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "reactivated"}})
}

// Delete handles DELETE /account. Accepted but never hard-deletes.
func (h *AccountHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.accounts.DeleteAccount(c.Context(), principal.User.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusAccepted)
}
