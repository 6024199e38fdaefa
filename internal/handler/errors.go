package handler

import (
	"net/http"

	"fleetadmin/internal/middleware"
	"fleetadmin/internal/service"
	"fleetadmin/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RespondDomainError maps service errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	case service.IsNotFound(err):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case service.IsConflict(err):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	case service.IsUnauthorized(err):
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(c),
			"path":       c.FullPath(),
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Something went wrong, please try again"))
	}
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
}
