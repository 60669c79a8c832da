package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
	"github.com/dinraj910/Health-Tracker-App/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	loginAttemptLimit  = 8
	loginAttemptWindow = 15 * time.Minute
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Timezone string `json:"timezone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type timezoneRequest struct {
	Timezone string `json:"timezone"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	var request registerRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	user, err := handler.authService.Register(ctx, services.RegisterInput{
		Name:     request.Name,
		Email:    request.Email,
		Password: request.Password,
		Timezone: request.Timezone,
	})
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		return apiError(c, fiber.StatusConflict, "email already exists")
	case errors.Is(err, services.ErrAuthNameRequired):
		return apiError(c, fiber.StatusBadRequest, "name is required")
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid email or password")
	case errors.Is(err, services.ErrWeakPassword):
		return apiError(c, fiber.StatusBadRequest, "password must be at least 8 characters and mix upper, lower case and digits")
	case errors.Is(err, services.ErrInvalidTimezone):
		return apiError(c, fiber.StatusBadRequest, "invalid timezone")
	case err != nil:
		handler.logger.Error("register failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to create account")
	}

	return handler.respondWithSession(c, fiber.StatusCreated, "account created", &user)
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var request loginRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	now := time.Now()
	throttleKey := loginThrottleKey(c, request.Email)
	if handler.loginThrottle.blocked(throttleKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	user, err := handler.authService.Authenticate(ctx, request.Email, request.Password)
	if errors.Is(err, services.ErrAuthCredentialsInvalid) {
		handler.loginThrottle.recordFailure(throttleKey, now)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		handler.logger.Error("login failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to sign in")
	}

	handler.loginThrottle.clear(throttleKey)
	return handler.respondWithSession(c, fiber.StatusOK, "signed in", &user)
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return apiMessage(c, fiber.StatusOK, "signed out", nil)
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}
	return apiSuccess(c, fiber.StatusOK, user)
}

func (handler *Handler) UpdateTimezone(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}

	var request timezoneRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	timezone, err := handler.authService.UpdateTimezone(ctx, user.ID, request.Timezone)
	if errors.Is(err, services.ErrInvalidTimezone) {
		return apiError(c, fiber.StatusBadRequest, "invalid timezone")
	}
	if err != nil {
		handler.logger.Error("update timezone failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to update timezone")
	}

	handler.cache.Invalidate(ctx, user.ID)
	user.Timezone = timezone
	return apiSuccess(c, fiber.StatusOK, user)
}

// ChangePassword checks the current password, stores the new one and issues
// a fresh session.
func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authorized")
	}

	var request changePasswordRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if request.CurrentPassword == "" || request.NewPassword == "" {
		return apiError(c, fiber.StatusBadRequest, "current and new password are required")
	}

	ctx, cancel := handler.requestContext(c.UserContext())
	defer cancel()

	err := handler.authService.ChangePassword(ctx, user.ID, request.CurrentPassword, request.NewPassword)
	switch {
	case errors.Is(err, services.ErrCurrentPasswordInvalid):
		return apiError(c, fiber.StatusUnauthorized, "current password is incorrect")
	case errors.Is(err, services.ErrWeakPassword):
		return apiError(c, fiber.StatusBadRequest, "password must be at least 8 characters and mix upper, lower case and digits")
	case err != nil:
		handler.logger.Error("change password failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to change password")
	}

	return handler.respondWithSession(c, fiber.StatusOK, "password changed", user)
}

func (handler *Handler) respondWithSession(c *fiber.Ctx, status int, message string, user *models.User) error {
	token, err := handler.buildToken(user, handler.tokenTTL)
	if err != nil {
		handler.logger.Error("sign token failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	handler.setAuthCookie(c, token)
	return apiMessage(c, status, message, authResponse{Token: token, User: *user})
}

func (handler *Handler) setAuthCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(handler.tokenTTL),
	})
}

func (handler *Handler) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

func (handler *Handler) buildToken(user *models.User, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = defaultAuthTokenTTL
	}
	now := time.Now()

	claims := authClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(handler.secretKey)
}
