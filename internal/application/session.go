package application

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/oksasatya/doki-web/internal/domain/entity"
	"github.com/oksasatya/doki-web/internal/domain/repository"
	"github.com/oksasatya/doki-web/pkg/apiclient"
)

// BoundSession binds a stored session record to its repository so the API
// client can read credentials and write reissued ones back. It is safe for
// concurrent use within one request.
type BoundSession struct {
	mu      sync.Mutex
	repo    repository.SessionRepository
	rec     *entity.Session
	cleared bool
}

// NewBoundSession wraps rec; a nil rec starts an anonymous session for
// deviceID.
func NewBoundSession(repo repository.SessionRepository, deviceID string, rec *entity.Session) *BoundSession {
	if rec == nil {
		rec = &entity.Session{DeviceID: deviceID}
	}
	return &BoundSession{repo: repo, rec: rec}
}

func (s *BoundSession) ID() string { return s.rec.DeviceID }

func (s *BoundSession) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.AccessToken
}

func (s *BoundSession) Cookies() []*http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*http.Cookie, 0, len(s.rec.Cookies))
	for _, ck := range s.rec.Cookies {
		out = append(out, &http.Cookie{Name: ck.Name, Value: ck.Value})
	}
	return out
}

func (s *BoundSession) SetAccessToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cleared {
		return nil
	}
	s.rec.AccessToken = token
	return s.repo.Save(ctx, s.rec)
}

func (s *BoundSession) SetCookies(ctx context.Context, cookies []*http.Cookie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cleared {
		return nil
	}
	in := make([]entity.Cookie, 0, len(cookies))
	for _, ck := range cookies {
		c := entity.Cookie{Name: ck.Name, Value: ck.Value, Expires: ck.Expires}
		if ck.MaxAge < 0 {
			c.Value = ""
		}
		in = append(in, c)
	}
	s.rec.MergeCookies(in, time.Now())
	return s.repo.Save(ctx, s.rec)
}

// Clear drops the credentials and the stored record. Only the first call
// touches the repository.
func (s *BoundSession) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cleared {
		return nil
	}
	s.cleared = true
	s.rec.AccessToken = ""
	s.rec.User = nil
	s.rec.Cookies = nil
	return s.repo.Delete(ctx, s.rec.DeviceID)
}

func (s *BoundSession) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.IsAuthenticated()
}

func (s *BoundSession) User() *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec.User == nil {
		return nil
	}
	u := *s.rec.User
	return &u
}

// SetUser caches the profile on the session and persists it.
func (s *BoundSession) SetUser(ctx context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cleared {
		return nil
	}
	cp := *u
	s.rec.User = &cp
	return s.repo.Save(ctx, s.rec)
}

// Snapshot returns a copy of the current record.
func (s *BoundSession) Snapshot() entity.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := *s.rec
	out.Cookies = append([]entity.Cookie(nil), s.rec.Cookies...)
	if s.rec.User != nil {
		u := *s.rec.User
		out.User = &u
	}
	return out
}

var _ apiclient.Session = (*BoundSession)(nil)
