package application

import (
	"context"
	"errors"
	"strings"

	"github.com/oksasatya/doki-web/internal/domain/repository"
	"github.com/oksasatya/doki-web/pkg/validation"
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

type PreferenceService struct {
	Prefs repository.PreferenceRepository
}

func NewPreferenceService(prefs repository.PreferenceRepository) *PreferenceService {
	return &PreferenceService{Prefs: prefs}
}

func (s *PreferenceService) Language(ctx context.Context, deviceID string) (string, error) {
	return s.Prefs.Language(ctx, deviceID)
}

func (s *PreferenceService) SetLanguage(ctx context.Context, deviceID, lang string) error {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if !supportedLanguage(lang) {
		return ErrUnsupportedLanguage
	}
	return s.Prefs.SetLanguage(ctx, deviceID, lang)
}

func supportedLanguage(lang string) bool {
	for _, l := range strings.Fields(validation.Languages) {
		if l == lang {
			return true
		}
	}
	return false
}
