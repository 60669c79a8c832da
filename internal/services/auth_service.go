package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
	"github.com/dinraj910/Health-Tracker-App/internal/security"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken             = errors.New("email already exists")
	ErrUserNotFound           = errors.New("user not found")
	ErrCurrentPasswordInvalid = errors.New("current password is incorrect")
)

const (
	temporaryPasswordLength   = 12
	temporaryPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(ctx context.Context, email string) (bool, error)
	FindByNormalizedEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, userID uint) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateTimezone(ctx context.Context, userID uint, timezone string) error
	UpdatePasswordHash(ctx context.Context, userID uint, passwordHash string) error
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Timezone string
}

type AuthService struct {
	users AuthUserRepository
	cost  int
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users, cost: bcrypt.DefaultCost}
}

func (service *AuthService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.User{}, ErrAuthNameRequired
	}
	email, password, err := NormalizeCredentialsInput(input.Email, input.Password)
	if err != nil {
		return models.User{}, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}
	timezone, err := NormalizeTimezone(input.Timezone)
	if err != nil {
		return models.User{}, err
	}

	exists, err := service.users.ExistsByNormalizedEmail(ctx, email)
	if err != nil {
		return models.User{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return models.User{}, ErrEmailTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), service.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		Timezone:     timezone,
		CreatedAt:    time.Now().UTC(),
	}
	if err := service.users.Create(ctx, &user); err != nil {
		return models.User{}, ErrEmailTaken
	}
	return user, nil
}

// Authenticate returns ErrAuthCredentialsInvalid for an unknown email and a
// wrong password alike.
func (service *AuthService) Authenticate(ctx context.Context, emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}

	user, err := service.users.FindByNormalizedEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	return user, nil
}

func (service *AuthService) FindByID(ctx context.Context, userID uint) (models.User, error) {
	return service.users.FindByID(ctx, userID)
}

func (service *AuthService) UpdateTimezone(ctx context.Context, userID uint, raw string) (string, error) {
	timezone, err := NormalizeTimezone(raw)
	if err != nil {
		return "", err
	}
	if err := service.users.UpdateTimezone(ctx, userID, timezone); err != nil {
		return "", fmt.Errorf("update timezone: %w", err)
	}
	return timezone, nil
}

// ChangePassword replaces the password of userID after checking the current
// one. The new password must pass the registration policy.
func (service *AuthService) ChangePassword(ctx context.Context, userID uint, current string, next string) error {
	if current == "" {
		return ErrCurrentPasswordInvalid
	}
	if err := ValidatePasswordStrength(next); err != nil {
		return err
	}

	user, err := service.users.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrCurrentPasswordInvalid
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(next), service.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := service.users.UpdatePasswordHash(ctx, user.ID, string(passwordHash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ResetPassword replaces the password of the account behind email with a
// generated one and returns it. Existing tokens stay valid until they expire.
func (service *AuthService) ResetPassword(ctx context.Context, emailRaw string) (string, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return "", ErrAuthCredentialsInvalid
	}

	user, err := service.users.FindByNormalizedEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}

	password, err := generateTemporaryPassword()
	if err != nil {
		return "", fmt.Errorf("generate temporary password: %w", err)
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), service.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	if err := service.users.UpdatePasswordHash(ctx, user.ID, string(passwordHash)); err != nil {
		return "", fmt.Errorf("update password: %w", err)
	}
	return password, nil
}

// generateTemporaryPassword draws until the result passes the registration
// password policy.
func generateTemporaryPassword() (string, error) {
	for {
		password, err := security.RandomString(temporaryPasswordLength, temporaryPasswordAlphabet)
		if err != nil {
			return "", err
		}
		if ValidatePasswordStrength(password) == nil {
			return password, nil
		}
	}
}
