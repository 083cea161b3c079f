package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
)

type AdminHandler struct {
	adminUC domain.AdminUsecase
}

// NewAdminHandler registers admin routes
func NewAdminHandler(admins *gin.RouterGroup, adminUC domain.AdminUsecase) {
	handler := &AdminHandler{adminUC: adminUC}

	admin := admins.Group("/admin")
	{
		admin.PUT("/accounts/:id/status", handler.SetAccountStatus)
	}
}

type AccountStatusRequest struct {
	Status domain.AccountStatus `json:"status" binding:"required"`
}

// SetAccountStatus godoc
// @Summary      Change account status
// @Description  Activate, deactivate or suspend an account (administrator only)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Account uuid"
// @Param        body  body      AccountStatusRequest  true  "New status"
// @Success      200   {object}  response.Response{data=domain.Account}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /admin/accounts/{id}/status [put]
// @Security     BearerAuth
func (h *AdminHandler) SetAccountStatus(c *gin.Context) {
	var req AccountStatusRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	account, err := h.adminUC.SetAccountStatus(c.Request.Context(), middleware.Principal(c), c.Param("id"), req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Account status updated", account)
}
