package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

type AccountHandler struct {
	accountUC domain.AccountUsecase
}

func NewAccountHandler(routes Routes, accountUC domain.AccountUsecase) {
	handler := &AccountHandler{accountUC: accountUC}

	routes.Public.GET("/users", handler.Directory)
	routes.Public.GET("/stats", handler.Stats)

	routes.Authed.GET("/user", handler.Me)
	routes.Employers.POST("/employer/agreements", handler.UpdateAgreements)
	routes.Authed.PUT("/tasks/:index", handler.SetTask)
}

type SetTaskRequest struct {
	Done *bool `json:"done" binding:"required"`
}

// Me godoc
// @Summary      Current account
// @Description  Returns the caller's account and onboarding profile
// @Tags         account
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Account}
// @Failure      401  {object}  response.Response
// @Router       /user [get]
// @Security     BearerAuth
func (h *AccountHandler) Me(c *gin.Context) {
	account, err := h.accountUC.Me(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Account retrieved", account)
}

// UpdateAgreements godoc
// @Summary      Update employer agreements
// @Description  Merges the provided agreement flags into the employer's profile. Omitted flags are unchanged.
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      domain.AgreementUpdate  true  "Agreement flags"
// @Success      200   {object}  response.Response{data=domain.Profile}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /employer/agreements [post]
// @Security     BearerAuth
func (h *AccountHandler) UpdateAgreements(c *gin.Context) {
	var req domain.AgreementUpdate
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	profile, err := h.accountUC.UpdateAgreements(c.Request.Context(), middleware.Principal(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Agreements updated", profile)
}

// SetTask godoc
// @Summary      Toggle an onboarding task
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        index  path      int             true  "Task index"
// @Param        body   body      SetTaskRequest  true  "Task state"
// @Success      200    {object}  response.Response{data=domain.Profile}
// @Failure      400    {object}  response.Response
// @Router       /tasks/{index} [put]
// @Security     BearerAuth
func (h *AccountHandler) SetTask(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid task index"))
		return
	}

	var req SetTaskRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	profile, err := h.accountUC.SetTask(c.Request.Context(), middleware.Principal(c), index, *req.Done)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Task updated", profile)
}

// Directory godoc
// @Summary      Account directory
// @Description  Public listing of active accounts without contact details
// @Tags         account
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.DirectoryEntry}
// @Router       /users [get]
func (h *AccountHandler) Directory(c *gin.Context) {
	entries, err := h.accountUC.Directory(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Directory retrieved", entries)
}

// Stats godoc
// @Summary      Site statistics
// @Tags         account
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Stats}
// @Router       /stats [get]
func (h *AccountHandler) Stats(c *gin.Context) {
	stats, err := h.accountUC.Stats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Stats retrieved", stats)
}
