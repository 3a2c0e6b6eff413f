package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	domain "library-management-service/internal/domain/user"
	apperrors "library-management-service/pkg/errors"
	"library-management-service/pkg/token"
)

// Repository defines the interface for user data access operations.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (int64, error)          // Create a new user
	GetByID(ctx context.Context, id int64) (*domain.User, error)        // Retrieve user by ID
	GetByEmail(ctx context.Context, email string) (*domain.User, error) // Retrieve user by email, nil when absent
}

// TokenMaker issues and verifies bearer credentials.
type TokenMaker interface {
	Generate(userID int64) (string, error)
	Verify(tokenString string) (*token.Claims, error)
}

// Usecase implements registration, login, and credential resolution.
type Usecase struct {
	repo     Repository          // Repository for user data access
	tokens   TokenMaker          // Bearer token issuance and verification
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

// New creates a new instance of Usecase.
func New(r Repository, tm TokenMaker, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, tokens: tm, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a human-readable error.
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
			case "email":
				messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
			case "max":
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
			default:
				messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
			}
		}
		return apperrors.NewValidationError("", strings.Join(messages, ", "))
	}
	return err
}

// Register creates a new account after validating the request and checking
// email uniqueness, then issues a bearer token for the new identity.
func (uc *Usecase) Register(ctx context.Context, in RegisterRequest) (*AuthResponse, error) {
	uc.log.Info("registering user", zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	existing, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		uc.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if existing != nil {
		uc.log.Warn("email already exists", zap.String("email", in.Email))
		return nil, apperrors.NewValidationError("email", "Email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.log.Error("failed to hash password", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	id, err := uc.repo.Create(ctx, &domain.User{
		Email:        in.Email,
		PasswordHash: string(hashed),
	})
	if err != nil {
		uc.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	tok, err := uc.tokens.Generate(id)
	if err != nil {
		uc.log.Error("failed to issue token", zap.Int64("id", id), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}

	return &AuthResponse{Email: in.Email, Token: tok}, nil
}

// Login verifies the credentials and issues a fresh bearer token.
func (uc *Usecase) Login(ctx context.Context, in LoginRequest) (*AuthResponse, error) {
	uc.log.Info("logging in user", zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		uc.log.Error("failed to look up user", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}
	if u == nil {
		uc.log.Warn("login with unknown email", zap.String("email", in.Email))
		return nil, apperrors.NewValidationError("email", "Incorrect email")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		uc.log.Warn("login with wrong password", zap.String("email", in.Email))
		return nil, apperrors.NewValidationError("password", "Incorrect password")
	}

	tok, err := uc.tokens.Generate(u.ID)
	if err != nil {
		uc.log.Error("failed to issue token", zap.Int64("id", u.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}

	return &AuthResponse{Email: u.Email, Token: tok}, nil
}

// Authenticate verifies a bearer token and resolves the acting identity.
// It fails with an unauthenticated error when the token is missing,
// malformed, expired, signed with the wrong key, or when the identity it
// names no longer exists.
func (uc *Usecase) Authenticate(ctx context.Context, tokenString string) (*domain.User, error) {
	if tokenString == "" {
		return nil, apperrors.NewUnauthenticatedError("missing bearer token")
	}

	claims, err := uc.tokens.Verify(tokenString)
	if err != nil {
		uc.log.Debug("token verification failed", zap.Error(err))
		if err == token.ErrExpired {
			return nil, apperrors.NewUnauthenticatedError("token expired")
		}
		return nil, apperrors.NewUnauthenticatedError("invalid token")
	}

	u, err := uc.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		uc.log.Warn("token resolves to unknown user", zap.Int64("id", claims.UserID), zap.Error(err))
		return nil, apperrors.NewUnauthenticatedError("unknown user")
	}

	return u, nil
}
