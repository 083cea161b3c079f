package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
)

type PostingHandler struct {
	postingUC domain.PostingUsecase
}

func NewPostingHandler(routes Routes, postingUC domain.PostingUsecase) {
	handler := &PostingHandler{postingUC: postingUC}

	routes.Public.GET("/posts", handler.ListPublic)
	routes.Public.GET("/posts/:id", handler.GetPublic)

	routes.Employers.POST("/create_post", handler.Create)
	routes.Authed.GET("/my_posts", handler.ListOwned)
	routes.Authed.PUT("/posts/:id", handler.Update)
	routes.Authed.DELETE("/posts/:id", handler.Delete)

	// Moderation
	routes.Admins.GET("/pending_posts", handler.ListPending)
	routes.Admins.PUT("/posts/:id/moderate", handler.Moderate)
}

type ModerateRequest struct {
	Decision domain.Decision `json:"decision" binding:"required"`
}

// Create godoc
// @Summary      Create a posting
// @Description  Files a posting for moderation. The employer must have accepted every agreement.
// @Tags         postings
// @Accept       json
// @Produce      json
// @Param        body  body      domain.PostingInput  true  "Posting content"
// @Success      201   {object}  response.Response{data=domain.Posting}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /create_post [post]
// @Security     BearerAuth
func (h *PostingHandler) Create(c *gin.Context) {
	var req domain.PostingInput
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	posting, err := h.postingUC.Create(c.Request.Context(), middleware.Principal(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Posting submitted for review", posting)
}

// ListPublic godoc
// @Summary      List open postings
// @Description  Accepted postings, newest first
// @Tags         postings
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Posting}
// @Router       /posts [get]
func (h *PostingHandler) ListPublic(c *gin.Context) {
	postings, err := h.postingUC.ListPublic(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Postings retrieved", postings)
}

// GetPublic godoc
// @Summary      Get an open posting
// @Tags         postings
// @Produce      json
// @Param        id   path      int  true  "Posting ID"
// @Success      200  {object}  response.Response{data=domain.Posting}
// @Failure      404  {object}  response.Response
// @Router       /posts/{id} [get]
func (h *PostingHandler) GetPublic(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	posting, err := h.postingUC.GetPublic(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Posting retrieved", posting)
}

// ListPending godoc
// @Summary      Moderation queue
// @Tags         moderation
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Posting}
// @Failure      403  {object}  response.Response
// @Router       /pending_posts [get]
// @Security     BearerAuth
func (h *PostingHandler) ListPending(c *gin.Context) {
	postings, err := h.postingUC.ListPending(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Pending postings retrieved", postings)
}

// ListOwned godoc
// @Summary      My postings
// @Description  The caller's postings in every status
// @Tags         postings
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Posting}
// @Router       /my_posts [get]
// @Security     BearerAuth
func (h *PostingHandler) ListOwned(c *gin.Context) {
	postings, err := h.postingUC.ListOwned(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Postings retrieved", postings)
}

// Update godoc
// @Summary      Edit a posting
// @Description  Replaces the content of a posting owned by the caller. Status is kept.
// @Tags         postings
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Posting ID"
// @Param        body  body      domain.PostingInput  true  "Posting content"
// @Success      200   {object}  response.Response{data=domain.Posting}
// @Failure      403   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /posts/{id} [put]
// @Security     BearerAuth
func (h *PostingHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.postingUC.CheckOwner(c.Request.Context(), middleware.Principal(c), id); err != nil {
		c.Error(err)
		return
	}
	var req domain.PostingInput
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	posting, err := h.postingUC.Update(c.Request.Context(), middleware.Principal(c), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Posting updated", posting)
}

// Delete godoc
// @Summary      Delete a posting
// @Description  Removes the posting and every application against it
// @Tags         postings
// @Produce      json
// @Param        id   path      int  true  "Posting ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /posts/{id} [delete]
// @Security     BearerAuth
func (h *PostingHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.postingUC.Delete(c.Request.Context(), middleware.Principal(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Posting deleted", nil)
}

// Moderate godoc
// @Summary      Moderate a posting
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Param        id    path      int              true  "Posting ID"
// @Param        body  body      ModerateRequest  true  "accept or reject"
// @Success      200   {object}  response.Response{data=domain.Posting}
// @Failure      403   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /posts/{id}/moderate [put]
// @Security     BearerAuth
func (h *PostingHandler) Moderate(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req ModerateRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	posting, err := h.postingUC.Moderate(c.Request.Context(), middleware.Principal(c), id, req.Decision)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Posting moderated", posting)
}
