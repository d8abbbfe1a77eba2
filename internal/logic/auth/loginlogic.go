package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskpilot/taskpilot/internal/apperr"
	"github.com/taskpilot/taskpilot/internal/logging"
	"github.com/taskpilot/taskpilot/internal/svc"
	"github.com/taskpilot/taskpilot/internal/types"
)

type LoginLogic struct {
	logging.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// Log in with email and password
func NewLoginLogic(ctx context.Context, svcCtx *svc.ServiceContext) *LoginLogic {
	return &LoginLogic{
		Logger: logging.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Login checks the attempt governor before comparing credentials: a locked
// email is rejected without touching the password hash, which both avoids
// the comparison's timing work and makes the lock deterministic. The 401
// message never distinguishes an unknown email from a wrong password.
func (l *LoginLogic) Login(req *types.LoginRequest) (*types.AuthResponse, error) {
	locked, retryAfter, err := l.svcCtx.DB.CheckLoginLock(l.ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, apperr.RateLimited(
			fmt.Sprintf("too many failed login attempts, try again in %d seconds", retryAfter),
			retryAfter,
		)
	}

	user, err := l.svcCtx.DB.GetUserByEmail(l.ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, l.recordFailure(req.Email)
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, l.recordFailure(req.Email)
	}

	// Full reset on success, regardless of prior state
	if err := l.svcCtx.DB.ResetLoginFailures(l.ctx, req.Email); err != nil {
		l.Errorf("failed to reset login failures for %s: %v", user.ID, err)
	}

	l.Infof("user logged in: %s", user.ID)
	return issueAuthResponse(l.svcCtx, user)
}

func (l *LoginLogic) recordFailure(email string) error {
	cfg := l.svcCtx.Config.Login
	count, err := l.svcCtx.DB.RecordLoginFailure(l.ctx, email, cfg.MaxFailedAttempts, cfg.LockoutWindow)
	if err != nil {
		l.Errorf("failed to record login failure: %v", err)
	} else if count >= cfg.MaxFailedAttempts {
		l.Infof("login lockout engaged after %d failed attempts", count)
	}
	return apperr.Authentication("invalid email or password")
}
