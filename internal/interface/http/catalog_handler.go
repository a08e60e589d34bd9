package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/doki-web/internal/application"
	"github.com/oksasatya/doki-web/internal/infrastructure/backend"
	"github.com/oksasatya/doki-web/internal/interface/middleware"
	"github.com/oksasatya/doki-web/pkg/response"
	"github.com/oksasatya/doki-web/pkg/validation"
)

type CatalogHandler struct {
	Svc    *application.CatalogService
	Logger *logrus.Logger
}

func NewCatalogHandler(svc *application.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{Svc: svc, Logger: logger}
}

type packageListQuery struct {
	Concept string `form:"concept"`
	Region  string `form:"region"`
	Sort    string `form:"sort" binding:"omitempty,oneof=popular rating priceAsc priceDesc latest"`
	Page    int    `form:"page" binding:"omitempty,min=1"`
	Size    int    `form:"size" binding:"omitempty,min=1,max=100"`
}

type searchQuery struct {
	Q    string `form:"q" binding:"required,max=100"`
	Size int    `form:"size" binding:"omitempty,min=1,max=50"`
}

type createReviewRequest struct {
	PackageID int64    `json:"packageId" binding:"required,gt=0"`
	Rating    int      `json:"rating" binding:"required,rating"`
	Content   string   `json:"content" binding:"required,max=2000"`
	Images    []string `json:"images" binding:"omitempty,max=5,dive,url"`
}

func (h *CatalogHandler) ListPackages(c *gin.Context) {
	var q packageListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	page, err := h.Svc.Packages(c.Request.Context(), backend.PackageQuery(q))
	if err != nil {
		backendError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, page, "packages", nil)
}

func (h *CatalogHandler) GetPackage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := h.Svc.Package(c.Request.Context(), id)
	if err != nil {
		backendError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "package", nil)
}

func (h *CatalogHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	hits, err := h.Svc.Search(c.Request.Context(), strings.TrimSpace(q.Q), q.Size)
	if err != nil {
		h.Logger.WithError(err).Warn("package search failed")
		response.Error[any](c, http.StatusBadGateway, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}

func (h *CatalogHandler) PackageReviews(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	reviews, err := h.Svc.Reviews(c.Request.Context(), id)
	if err != nil {
		backendError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, reviews, "reviews", nil)
}

func (h *CatalogHandler) MyReviews(c *gin.Context) {
	reviews, err := h.Svc.MyReviews(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		backendError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, reviews, "my reviews", nil)
}

func (h *CatalogHandler) CreateReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	r, err := h.Svc.WriteReview(c.Request.Context(), middleware.SessionFrom(c), backend.NewReview{
		PackageID: req.PackageID,
		Rating:    req.Rating,
		Content:   strings.TrimSpace(req.Content),
		Images:    req.Images,
	})
	if err != nil {
		backendError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, r, "review created", nil)
}

func (h *CatalogHandler) DeleteReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.DeleteReview(c.Request.Context(), middleware.SessionFrom(c), id); err != nil {
		backendError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": id}, "review deleted", nil)
}
