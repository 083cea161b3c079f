package apperror

import (
	"net/http"

	"go-jobboard-backend/pkg/logger"
)

// Store wraps a failed store call. The cause is logged with the operation and
// the affected id; clients only ever see the generic message.
func Store(op string, id any, err error) *AppError {
	logger.L().Error("store operation failed", "op", op, "id", id, "error", err)
	return New(http.StatusInternalServerError, KindStore, "Internal Server Error", err)
}
