// Package backend holds thin typed wrappers over the DOKI REST backend.
// Every call goes through apiclient so authorized calls share the
// reissue-on-401 behaviour.
package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/oksasatya/doki-web/internal/domain/entity"
	"github.com/oksasatya/doki-web/pkg/apiclient"
)

type API struct {
	c *apiclient.Client
}

func New(c *apiclient.Client) *API { return &API{c: c} }

// Me returns the profile of the token holder.
func (a *API) Me(ctx context.Context, sess apiclient.Session) (*entity.User, error) {
	var u entity.User
	if err := a.c.Do(ctx, sess, apiclient.Request{Method: http.MethodGet, Path: "/users/me", Auth: true}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

type ProfilePatch struct {
	Name         *string `json:"name,omitempty"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

func (a *API) UpdateMe(ctx context.Context, sess apiclient.Session, patch ProfilePatch) (*entity.User, error) {
	var u entity.User
	if err := a.c.Do(ctx, sess, apiclient.Request{Method: http.MethodPatch, Path: "/users/me", Body: patch, Auth: true}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout asks the backend to revoke the refresh token.
func (a *API) Logout(ctx context.Context, sess apiclient.Session) error {
	return a.c.Do(ctx, sess, apiclient.Request{Method: http.MethodPost, Path: "/auth/logout", Auth: true}, nil)
}

type PackageQuery struct {
	Concept string
	Region  string
	Sort    string
	Page    int
	Size    int
}

func (q PackageQuery) values() url.Values {
	v := url.Values{}
	if q.Concept != "" {
		v.Set("concept", q.Concept)
	}
	if q.Region != "" {
		v.Set("region", q.Region)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	return v
}

func (a *API) ListPackages(ctx context.Context, q PackageQuery) (*entity.PackagePage, error) {
	var page entity.PackagePage
	if err := a.c.Do(ctx, nil, apiclient.Request{Method: http.MethodGet, Path: "/packages", Query: q.values()}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (a *API) GetPackage(ctx context.Context, id int64) (*entity.Package, error) {
	var p entity.Package
	if err := a.c.Do(ctx, nil, apiclient.Request{Method: http.MethodGet, Path: "/packages/" + strconv.FormatInt(id, 10)}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
