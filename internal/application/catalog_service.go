package application

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/doki-web/internal/domain/entity"
	"github.com/oksasatya/doki-web/internal/infrastructure/backend"
	"github.com/oksasatya/doki-web/pkg/apiclient"
)

const indexPageSize = 50

type CatalogService struct {
	API     *backend.API
	ES      *elasticsearch.Client
	ESIndex string
	Logger  *logrus.Logger
}

func NewCatalogService(api *backend.API, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *CatalogService {
	return &CatalogService{API: api, ES: es, ESIndex: esIndex, Logger: logger}
}

func (s *CatalogService) Packages(ctx context.Context, q backend.PackageQuery) (*entity.PackagePage, error) {
	return s.API.ListPackages(ctx, q)
}

func (s *CatalogService) Package(ctx context.Context, id int64) (*entity.Package, error) {
	return s.API.GetPackage(ctx, id)
}

func (s *CatalogService) Reviews(ctx context.Context, packageID int64) ([]entity.Review, error) {
	return s.API.PackageReviews(ctx, packageID)
}

func (s *CatalogService) MyReviews(ctx context.Context, sess apiclient.Session) ([]entity.Review, error) {
	return s.API.MyReviews(ctx, sess)
}

func (s *CatalogService) WriteReview(ctx context.Context, sess apiclient.Session, r backend.NewReview) (*entity.Review, error) {
	return s.API.CreateReview(ctx, sess, r)
}

func (s *CatalogService) DeleteReview(ctx context.Context, sess apiclient.Session, id int64) error {
	return s.API.DeleteReview(ctx, sess, id)
}

func (s *CatalogService) searchEnabled() bool { return s.ES != nil && s.ESIndex != "" }

// Search runs a multi_match over package name, concepts, region and
// description. With search unconfigured it returns no hits.
func (s *CatalogService) Search(ctx context.Context, q string, size int) ([]entity.Package, error) {
	if !s.searchEnabled() {
		return []entity.Package{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^3", "concepts^2", "region", "description"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).Warn("es search response error")
		return []entity.Package{}, nil
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source entity.Package `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]entity.Package, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// Index writes one package document keyed by its ID.
func (s *CatalogService) Index(ctx context.Context, p entity.Package) error {
	if !s.searchEnabled() {
		return nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: strconv.FormatInt(p.ID, 10), Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("package_id", p.ID).Warn("es index response error")
	}
	return nil
}

// Reindex pages through the backend catalog and indexes every package,
// returning how many were written.
func (s *CatalogService) Reindex(ctx context.Context) (int, error) {
	n := 0
	for page := 1; ; page++ {
		res, err := s.API.ListPackages(ctx, backend.PackageQuery{Page: page, Size: indexPageSize})
		if err != nil {
			return n, err
		}
		for _, p := range res.Items {
			if err := s.Index(ctx, p); err != nil {
				return n, err
			}
			n++
		}
		if len(res.Items) < indexPageSize || (res.Total > 0 && n >= res.Total) {
			return n, nil
		}
	}
}
