package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

// NewAuthHandler registers /register and /auth. Both take the stricter rate limit.
func NewAuthHandler(public *gin.RouterGroup, authUC domain.AuthUsecase, limit gin.HandlerFunc) {
	handler := &AuthHandler{authUC: authUC}

	public.POST("/register", limit, handler.Register)
	public.POST("/auth", limit, handler.Login)
}

// Register godoc
// @Summary      Register an account
// @Description  Creates a student, employer or administrator account. The returned uuid is the account's bearer credential.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.RegisterInput  true  "Registration details"
// @Success      201   {object}  response.Response{data=domain.Session}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterInput
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	session, err := h.authUC.Register(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Account created", session)
}

// Login godoc
// @Summary      Log in
// @Description  Verifies email and password. Unknown email and wrong password fail identically.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.LoginInput  true  "Credentials"
// @Success      200   {object}  response.Response{data=domain.Session}
// @Failure      401   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /auth [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginInput
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	session, err := h.authUC.Authenticate(c.Request.Context(), req, domain.LoginMeta{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		RequestID: c.GetString(response.RequestIDKey),
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", session)
}
