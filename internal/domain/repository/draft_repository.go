package repository

import (
	"context"

	"github.com/oksasatya/doki-web/internal/domain/entity"
)

// DraftRepository persists wizard drafts keyed by device ID. Get returns
// nil, nil when no draft exists.
type DraftRepository interface {
	Get(ctx context.Context, deviceID string) (*entity.Draft, error)
	Save(ctx context.Context, deviceID string, d *entity.Draft) error
	Delete(ctx context.Context, deviceID string) error
}

// PreferenceRepository stores per-device UI preferences.
type PreferenceRepository interface {
	Language(ctx context.Context, deviceID string) (string, error)
	SetLanguage(ctx context.Context, deviceID, lang string) error
}
