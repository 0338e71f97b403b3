package service

import (
	"context"

	"lguportal/portal/internal/models"
)

// View names the portal panel the browser should show next.
type View string

const (
	ViewLogin      View = "login"
	ViewRegister   View = "register"
	ViewAdditional View = "additional"
)

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	EmailExists(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	GetByTokenHash(ctx context.Context, tokenHash []byte) (models.Session, error)
	DeleteByTokenHash(ctx context.Context, tokenHash []byte) error
	Touch(ctx context.Context, sessionID string) error
}

type PendingStore interface {
	Save(ctx context.Context, pending models.PendingRegistration) error
	Get(ctx context.Context, id string) (models.PendingRegistration, error)
	Delete(ctx context.Context, id string) error
}
