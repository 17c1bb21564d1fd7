package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chirp/backend/internal/model"
	"chirp/backend/pkg/errors"
)

// contentEnvelope wraps a polymorphic content node with its kind tag so
// clients can discriminate
func contentEnvelope(content model.Content) gin.H {
	return gin.H{
		"kind": content.ContentKind(),
		"node": content,
	}
}

func contentList(items []model.Content) []gin.H {
	list := make([]gin.H, 0, len(items))
	for _, item := range items {
		list = append(list, contentEnvelope(item))
	}
	return list
}

// respondError maps the error taxonomy onto HTTP statuses. The body carries
// the stable machine-readable message; internals are never exposed.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		log.Error("Request failed", zap.Error(err))
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": errors.Message(err)})
}

func httpStatus(err error) int {
	switch {
	case err == errors.ErrLoginRequired:
		return http.StatusUnauthorized
	case err == errors.ErrNotVerified:
		return http.StatusForbidden
	case errors.IsErrorType(err, errors.ErrorTypeValidation):
		return http.StatusBadRequest
	case errors.IsErrorType(err, errors.ErrorTypeNotFound):
		return http.StatusNotFound
	case errors.IsErrorType(err, errors.ErrorTypeConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
