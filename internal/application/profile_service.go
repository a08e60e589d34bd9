package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/doki-web/internal/domain/entity"
	"github.com/oksasatya/doki-web/internal/infrastructure/backend"
	"github.com/oksasatya/doki-web/pkg/helpers"
)

var (
	ErrUploadDisabled   = errors.New("profile image upload is not configured")
	ErrUnsupportedImage = errors.New("profile image must be jpeg, png or webp")
	ErrEmptyName        = errors.New("name must not be blank")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// sniffLen is how much http.DetectContentType looks at.
const sniffLen = 512

type ProfileService struct {
	API      *backend.API
	Uploader helpers.ObjectUploader
	Logger   *logrus.Logger
}

// NewProfileService accepts a nil uploader; uploads then fail with
// ErrUploadDisabled.
func NewProfileService(api *backend.API, uploader helpers.ObjectUploader, logger *logrus.Logger) *ProfileService {
	return &ProfileService{API: api, Uploader: uploader, Logger: logger}
}

func (s *ProfileService) Get(ctx context.Context, sess *BoundSession) (*entity.User, error) {
	u, err := s.API.Me(ctx, sess)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, sess, u)
	return u, nil
}

func (s *ProfileService) UpdateName(ctx context.Context, sess *BoundSession, name string) (*entity.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	u, err := s.API.UpdateMe(ctx, sess, backend.ProfilePatch{Name: &name})
	if err != nil {
		return nil, err
	}
	s.cache(ctx, sess, u)
	return u, nil
}

// UploadImage stores the image in the bucket and points the profile at it.
// The stored content type is sniffed from the first bytes. A declared
// image type outside the allowed set is rejected up front.
func (s *ProfileService) UploadImage(ctx context.Context, sess *BoundSession, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.Uploader == nil {
		return nil, ErrUploadDisabled
	}
	if strings.HasPrefix(contentType, "image/") && !allowedImageTypes[contentType] {
		return nil, ErrUnsupportedImage
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	head = head[:n]
	contentType = http.DetectContentType(head)
	if !allowedImageTypes[contentType] {
		return nil, ErrUnsupportedImage
	}
	r = io.MultiReader(bytes.NewReader(head), r)
	owner := "anonymous"
	if u := sess.User(); u != nil {
		owner = u.ID
	}
	url, err := s.Uploader.Upload(ctx, helpers.ProfileImagePath(owner, uuid.NewString(), filename), contentType, r)
	if err != nil {
		return nil, err
	}
	u, err := s.API.UpdateMe(ctx, sess, backend.ProfilePatch{ProfileImage: &url})
	if err != nil {
		return nil, err
	}
	s.cache(ctx, sess, u)
	return u, nil
}

func (s *ProfileService) cache(ctx context.Context, sess *BoundSession, u *entity.User) {
	if err := sess.SetUser(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("device_id", sess.ID()).Warn("cache user failed")
	}
}
