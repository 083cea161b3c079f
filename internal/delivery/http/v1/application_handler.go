package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

// NewApplicationHandler registers application routes
func NewApplicationHandler(routes Routes, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	routes.Students.POST("/apply", handler.Apply)
	routes.Authed.GET("/applications/submitted", handler.ListSubmitted)

	received := routes.Employers.Group("/applications")
	{
		received.GET("/received", handler.ListReceived)
		received.PUT("/:id/status", handler.SetStatus)
	}
}

type SetStatusRequest struct {
	Status domain.ApplicationStatus `json:"status" binding:"required"`
}

// Apply godoc
// @Summary      Apply to a posting
// @Description  Students apply once per accepted posting
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        body  body      domain.ApplyInput  true  "Posting and answers"
// @Success      201   {object}  response.Response{data=domain.Application}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /apply [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req domain.ApplyInput
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	app, err := h.applicationUC.Apply(c.Request.Context(), middleware.Principal(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Application submitted successfully", app)
}

// ListSubmitted godoc
// @Summary      My applications
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Application}
// @Router       /applications/submitted [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListSubmitted(c *gin.Context) {
	apps, err := h.applicationUC.ListSubmitted(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// ListReceived godoc
// @Summary      Received applications
// @Description  Applications recorded against the calling employer
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Application}
// @Failure      403  {object}  response.Response
// @Router       /applications/received [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListReceived(c *gin.Context) {
	apps, err := h.applicationUC.ListReceived(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// SetStatus godoc
// @Summary      Decide an application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      int               true  "Application ID"
// @Param        body  body      SetStatusRequest  true  "accepted or rejected"
// @Success      200   {object}  response.Response{data=domain.Application}
// @Failure      403   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /applications/{id}/status [put]
// @Security     BearerAuth
func (h *ApplicationHandler) SetStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.applicationUC.CheckOwner(c.Request.Context(), middleware.Principal(c), id); err != nil {
		c.Error(err)
		return
	}
	var req SetStatusRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	app, err := h.applicationUC.SetStatus(c.Request.Context(), middleware.Principal(c), id, req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application status updated", app)
}
