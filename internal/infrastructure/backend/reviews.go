package backend

import (
	"context"
	"net/http"
	"strconv"

	"github.com/oksasatya/doki-web/internal/domain/entity"
	"github.com/oksasatya/doki-web/pkg/apiclient"
)

type NewReview struct {
	PackageID int64    `json:"packageId"`
	Rating    int      `json:"rating"`
	Content   string   `json:"content"`
	Images    []string `json:"images,omitempty"`
}

func (a *API) PackageReviews(ctx context.Context, packageID int64) ([]entity.Review, error) {
	var out []entity.Review
	path := "/packages/" + strconv.FormatInt(packageID, 10) + "/reviews"
	if err := a.c.Do(ctx, nil, apiclient.Request{Method: http.MethodGet, Path: path}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) MyReviews(ctx context.Context, sess apiclient.Session) ([]entity.Review, error) {
	var out []entity.Review
	if err := a.c.Do(ctx, sess, apiclient.Request{Method: http.MethodGet, Path: "/reviews/me", Auth: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) CreateReview(ctx context.Context, sess apiclient.Session, r NewReview) (*entity.Review, error) {
	var out entity.Review
	if err := a.c.Do(ctx, sess, apiclient.Request{Method: http.MethodPost, Path: "/reviews", Body: r, Auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) DeleteReview(ctx context.Context, sess apiclient.Session, id int64) error {
	return a.c.Do(ctx, sess, apiclient.Request{Method: http.MethodDelete, Path: "/reviews/" + strconv.FormatInt(id, 10), Auth: true}, nil)
}
