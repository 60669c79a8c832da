package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dinraj910/Health-Tracker-App/internal/db"
	"github.com/dinraj910/Health-Tracker-App/internal/services"
	"gorm.io/gorm"
)

// RunResetPasswordCommand sets a generated password on the account behind
// email and prints it to out.
func RunResetPasswordCommand(ctx context.Context, database *gorm.DB, email string, out io.Writer) error {
	authService := services.NewAuthService(db.NewUserRepository(database))

	password, err := authService.ResetPassword(ctx, email)
	switch {
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		return fmt.Errorf("invalid email address %q", email)
	case errors.Is(err, services.ErrUserNotFound):
		return fmt.Errorf("user %s not found", services.NormalizeAuthEmail(email))
	case err != nil:
		return err
	}

	fmt.Fprintln(out, "Password reset successful")
	fmt.Fprintf(out, "Temporary password: %s\n", password)
	fmt.Fprintln(out, "Share it over a trusted channel and ask the user to sign in with it.")
	return nil
}
