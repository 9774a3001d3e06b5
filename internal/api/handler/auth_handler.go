package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/karibu-kenya/travel-api/internal/api/metrics"
	"github.com/karibu-kenya/travel-api/internal/core/domain"
	"github.com/karibu-kenya/travel-api/internal/core/ports"
)

// AuthHandler exposes the authentication and account endpoints.
type AuthHandler struct {
	accounts ports.AccountService
}

func NewAuthHandler(accounts ports.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Register creates a new user account and sends a verification email.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  response
// @Failure      400   {object}  response
// @Failure      500   {object}  response
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		Phone:       req.Phone,
		Nationality: req.Nationality,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailDelivery) {
			metrics.EmailsSentTotal.WithLabelValues("verification", "error").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.Inc()
	metrics.EmailsSentTotal.WithLabelValues("verification", "ok").Inc()

	return c.JSON(http.StatusCreated, response{
		Success: true,
		Message: "User registered successfully. Please check your email to verify your account.",
		Data:    map[string]any{"user": user},
	})
}

// Login authenticates a user and returns an access and refresh token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  response
// @Failure      401   {object}  response
// @Failure      423   {object}  response
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountLocked):
			metrics.LoginsTotal.WithLabelValues("locked").Inc()
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("access").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("refresh").Inc()

	return c.JSON(http.StatusOK, response{
		Success: true,
		Message: "Login successful",
		Data: map[string]any{
			"user":          result.User,
			"token":         result.Token,
			"refresh_token": result.RefreshToken,
		},
	})
}

// Logout acknowledges the logout. Tokens are not blacklisted; they expire.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  response
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.accounts.Logout(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response{Success: true, Message: "Logged out successfully"})
}

// Me returns the authenticated user's profile.
//
// @Summary      Get current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  response
// @Failure      404   {object}  response
// @Router       /api/v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.accounts.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response{Success: true, Data: map[string]any{"user": user}})
}

// UpdateDetails merges the permitted profile fields.
//
// @Summary      Update user details
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateDetailsRequest  true  "Fields to update"
// @Success      200   {object}  response
// @Failure      400   {object}  response
// @Router       /api/v1/auth/updatedetails [put]
func (h *AuthHandler) UpdateDetails(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateDetailsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.accounts.UpdateProfile(c.Request().Context(), userID, req.toProfileUpdate())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response{Success: true, Data: map[string]any{"user": user}})
}

// UpdatePassword changes the password after checking the current one.
//
// @Summary      Update password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updatePasswordRequest  true  "Current and new password"
// @Success      200   {object}  response
// @Failure      401   {object}  response
// @Router       /api/v1/auth/updatepassword [put]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.accounts.UpdatePassword(c.Request().Context(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}

	metrics.TokensIssuedTotal.WithLabelValues("access").Inc()

	return c.JSON(http.StatusOK, response{
		Success: true,
		Message: "Password updated successfully",
		Data:    map[string]any{"token": token},
	})
}

// ForgotPassword issues a reset token and emails the reset link.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  response
// @Failure      404   {object}  response
// @Failure      500   {object}  response
// @Router       /api/v1/auth/forgotpassword [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.accounts.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrEmailDelivery) {
			metrics.EmailsSentTotal.WithLabelValues("reset", "error").Inc()
		}
		return err
	}

	metrics.EmailsSentTotal.WithLabelValues("reset", "ok").Inc()
	return c.JSON(http.StatusOK, response{Success: true, Message: "Password reset email sent"})
}

// ResetPassword consumes a reset token and sets the new password.
//
// @Summary      Reset password with a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        resettoken  path  string                true  "Reset token"
// @Param        body        body  resetPasswordRequest  true  "New password"
// @Success      200   {object}  response
// @Failure      400   {object}  response
// @Router       /api/v1/auth/resetpassword/{resettoken} [put]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.accounts.ResetPassword(c.Request().Context(), c.Param("resettoken"), req.Password)
	if err != nil {
		return err
	}

	metrics.TokensIssuedTotal.WithLabelValues("access").Inc()

	return c.JSON(http.StatusOK, response{
		Success: true,
		Message: "Password reset successful",
		Data:    map[string]any{"token": token},
	})
}

// VerifyEmail consumes a verification token and marks the email verified.
//
// @Summary      Verify email address
// @Tags         auth
// @Produce      json
// @Param        token  path  string  true  "Verification token"
// @Success      200   {object}  response
// @Failure      400   {object}  response
// @Router       /api/v1/auth/verify-email/{token} [get]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	if err := h.accounts.VerifyEmail(c.Request().Context(), c.Param("token")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response{Success: true, Message: "Email verified successfully"})
}

// Refresh exchanges a valid refresh token for a brand-new token pair.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  response
// @Failure      401   {object}  response
// @Router       /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	pair, err := h.accounts.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		// The refresh flow reports bad tokens as unauthorized, unlike the
		// single-use email tokens which map to 400.
		if errors.Is(err, domain.ErrInvalidToken) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
		}
		return err
	}

	metrics.TokensIssuedTotal.WithLabelValues("access").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("refresh").Inc()

	return c.JSON(http.StatusOK, response{
		Success: true,
		Data: map[string]any{
			"token":         pair.Token,
			"refresh_token": pair.RefreshToken,
		},
	})
}
