package admin

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"storefront/pkg/auth"
	"storefront/pkg/httperror"
	"storefront/pkg/validation"

	"go.uber.org/zap"
)

type LoginHandler struct {
	repository Repository
	tokens     TokenIssuer
}

func NewLoginHandler(repository Repository, tokens TokenIssuer) *LoginHandler {
	return &LoginHandler{
		repository: repository,
		tokens:     tokens,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginUser struct {
	Email string `json:"email"`
	ID    int64  `json:"id"`
}

type LoginResponse struct {
	Success bool      `json:"success"`
	Token   string    `json:"token"`
	User    LoginUser `json:"user"`
}

// invalidCredentials is shared by the unknown-email and wrong-password paths.
func invalidCredentials() error {
	return httperror.Unauthorized(
		"admin.login.invalid_credentials",
		"Invalid credentials",
		nil,
	)
}

func (h LoginHandler) Handle(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)

	if err := validation.Struct("admin.login", req); err != nil {
		return nil, err
	}

	user, err := h.repository.GetAdminUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			auth.BurnCompare(req.Password)
			return nil, invalidCredentials()
		}

		return nil, httperror.InternalServerError(
			"admin.login.failed",
			"Failed to authenticate",
			nil,
		)
	}

	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			zap.L().Warn("Stored admin password hash is unusable",
				zap.Int64("adminId", user.ID),
				zap.Error(err),
			)
		}
		return nil, invalidCredentials()
	}

	token, err := h.tokens.Issue(user.Email)
	if err != nil {
		return nil, httperror.InternalServerError(
			"admin.login.token_failed",
			"Failed to issue token",
			nil,
		)
	}

	zap.L().Info("Admin logged in", zap.Int64("adminId", user.ID))

	return &LoginResponse{
		Success: true,
		Token:   token,
		User: LoginUser{
			Email: user.Email,
			ID:    user.ID,
		},
	}, nil
}
