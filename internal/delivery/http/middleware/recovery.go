package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/pkg/apperror"
)

// Recovery contains a panic to the request that raised it.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					"error", r,
					"path", c.Request.URL.Path,
					"request_id", c.GetString(response.RequestIDKey),
				)
				response.Abort(c, http.StatusInternalServerError, "Internal Server Error", apperror.KindInternal)
			}
		}()
		c.Next()
	}
}
