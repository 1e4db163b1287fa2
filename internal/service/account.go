package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mmcdole/netkin/internal/domain"
)

// credentials is the sign-in form
type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Account manages the signed-in user. There is no real authentication:
// any well-formed e-mail and non-empty password is accepted.
type Account struct {
	store    domain.Store
	validate *validator.Validate
	logger   *slog.Logger
}

// NewAccount creates an account service over store
func NewAccount(store domain.Store, logger *slog.Logger) *Account {
	if logger == nil {
		logger = slog.Default()
	}
	return &Account{
		store:    store,
		validate: validator.New(),
		logger:   logger,
	}
}

// SignIn validates the credentials and persists the current user
func (a *Account) SignIn(email, password string) (domain.User, error) {
	creds := credentials{Email: strings.TrimSpace(email), Password: password}
	if err := a.validate.Struct(creds); err != nil {
		return domain.User{}, fmt.Errorf("%w: %s", domain.ErrInvalidCredentials, describe(err))
	}

	user := domain.User{
		Email: creds.Email,
		Name:  strings.SplitN(creds.Email, "@", 2)[0],
	}
	if err := a.store.SaveCurrentUser(user); err != nil {
		return user, fmt.Errorf("save current user: %w", err)
	}
	a.logger.Info("signed in", "email", user.Email)
	return user, nil
}

// SignOut forgets the current user
func (a *Account) SignOut() error {
	if err := a.store.ClearCurrentUser(); err != nil {
		return fmt.Errorf("clear current user: %w", err)
	}
	a.logger.Info("signed out")
	return nil
}

// Current returns the signed-in user, or nil
func (a *Account) Current() (*domain.User, error) {
	return a.store.GetCurrentUser()
}

// describe turns a validation failure into the sign-in form's message
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return "please fill in all fields"
		}
	}
	return "please enter a valid email address"
}
