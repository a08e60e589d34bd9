package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/doki-web/internal/interface/middleware"
	"github.com/oksasatya/doki-web/pkg/apiclient"
	"github.com/oksasatya/doki-web/pkg/helpers"
	"github.com/oksasatya/doki-web/pkg/response"
)

// backendError maps a failed backend call onto the response envelope.
// Expired sessions become 401 with a login redirect hint; backend 4xx pass
// through; everything else is a 502.
func backendError(c *gin.Context, logger *logrus.Logger, err error) {
	var apiErr *apiclient.Error
	switch {
	case apiclient.IsUnauthorized(err):
		response.Error[any](c, http.StatusUnauthorized, "session expired", gin.H{"redirect": middleware.LoginURL(c)})
	case errors.As(err, &apiErr) && apiErr.Kind == apiclient.KindHTTP && apiErr.Status >= 400 && apiErr.Status < 500:
		var detail any
		if apiErr.Code != "" {
			detail = gin.H{"code": apiErr.Code}
		}
		response.Error[any](c, apiErr.Status, apiErr.Message, detail)
	case apiclient.IsNetwork(err):
		helpers.LogError(logger, "backend unreachable", err, logrus.Fields{"path": c.FullPath()})
		response.Error[any](c, http.StatusBadGateway, "backend unavailable", nil)
	case errors.As(err, &apiErr):
		helpers.LogError(logger, "backend error", err, logrus.Fields{"path": c.FullPath(), "status": apiErr.Status})
		response.Error[any](c, http.StatusBadGateway, "backend error", nil)
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{"path": c.FullPath()})
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

// idParam reads a positive integer path parameter, answering 400 otherwise.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return id, true
}
