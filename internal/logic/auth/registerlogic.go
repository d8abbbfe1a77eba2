package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskpilot/taskpilot/internal/apperr"
	"github.com/taskpilot/taskpilot/internal/auth"
	"github.com/taskpilot/taskpilot/internal/db"
	"github.com/taskpilot/taskpilot/internal/logging"
	"github.com/taskpilot/taskpilot/internal/svc"
	"github.com/taskpilot/taskpilot/internal/types"
)

const minPasswordLen = 8

type RegisterLogic struct {
	logging.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// Create a new account
func NewRegisterLogic(ctx context.Context, svcCtx *svc.ServiceContext) *RegisterLogic {
	return &RegisterLogic{
		Logger: logging.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *RegisterLogic) Register(req *types.RegisterRequest) (*types.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("email", "invalid email address")
	}
	if len(req.Password) < minPasswordLen {
		return nil, apperr.Validation("password", "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := l.svcCtx.DB.CreateUser(l.ctx, email, req.Name, string(hash))
	if err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			return nil, apperr.Validation("email", "email already registered")
		}
		return nil, err
	}

	l.Infof("user registered: %s", user.ID)
	return issueAuthResponse(l.svcCtx, user)
}

func issueAuthResponse(svcCtx *svc.ServiceContext, user *db.User) (*types.AuthResponse, error) {
	cfg := svcCtx.Config.Auth
	token, err := auth.IssueToken(cfg.AccessSecret, user.ID, user.Email, user.Name, cfg.AccessExpire)
	if err != nil {
		return nil, err
	}
	return &types.AuthResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(cfg.AccessExpire).UnixMilli(),
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
	}, nil
}
