package repository

import (
	"context"

	"github.com/oksasatya/doki-web/internal/domain/entity"
)

// SessionRepository persists sessions keyed by device ID. Get returns nil,
// nil when the device has no session.
type SessionRepository interface {
	Get(ctx context.Context, deviceID string) (*entity.Session, error)
	Save(ctx context.Context, s *entity.Session) error
	// Delete is idempotent.
	Delete(ctx context.Context, deviceID string) error
	// Each calls fn for every stored session; fn errors stop the walk.
	Each(ctx context.Context, fn func(*entity.Session) error) error
}
