package backend

import (
	"context"
	"net/http"

	"github.com/oksasatya/doki-web/internal/domain/entity"
	"github.com/oksasatya/doki-web/pkg/apiclient"
)

func (a *API) SubmitSurvey(ctx context.Context, sess apiclient.Session, s entity.Survey) (*entity.SurveyReceipt, error) {
	var out entity.SurveyReceipt
	if err := a.c.Do(ctx, sess, apiclient.Request{Method: http.MethodPost, Path: "/surveys", Body: s, Auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
