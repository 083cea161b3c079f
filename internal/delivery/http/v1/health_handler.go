package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/apperror"
)

type HealthHandler struct {
	healthUC usecase.HealthUsecase
	now      func() time.Time
}

func NewHealthHandler(public *gin.RouterGroup, healthUC usecase.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC, now: time.Now}

	public.GET("/health", handler.Health)
	public.GET("/server_time", handler.ServerTime)
}

// Health godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status, healthy := h.healthUC.Check(c.Request.Context())
	if !healthy {
		c.JSON(http.StatusServiceUnavailable, response.Response{
			Message:   "Service degraded",
			Data:      status,
			Error:     apperror.KindStore,
			RequestID: c.GetString(response.RequestIDKey),
		})
		return
	}
	response.Success(c, http.StatusOK, "System operational", status)
}

// ServerTime godoc
// @Summary      Server time
// @Description  Current server time in unix seconds
// @Tags         system
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /server_time [get]
func (h *HealthHandler) ServerTime(c *gin.Context) {
	response.Success(c, http.StatusOK, "Server time", gin.H{"time": h.now().Unix()})
}
