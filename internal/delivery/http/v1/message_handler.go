package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
)

type MessageHandler struct {
	messageUC domain.MessageUsecase
}

func NewMessageHandler(protected *gin.RouterGroup, messageUC domain.MessageUsecase) {
	handler := &MessageHandler{messageUC: messageUC}

	protected.POST("/messages", handler.Send)
	protected.GET("/messages/:user_id", handler.Thread)
	protected.GET("/conversations", handler.Conversations)
}

// Send godoc
// @Summary      Send a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        body  body      domain.SendInput  true  "Message"
// @Success      201   {object}  response.Response{data=domain.Message}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /messages [post]
// @Security     BearerAuth
func (h *MessageHandler) Send(c *gin.Context) {
	var req domain.SendInput
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	msg, err := h.messageUC.Send(c.Request.Context(), middleware.Principal(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Message sent", msg)
}

// Thread godoc
// @Summary      Conversation thread
// @Description  Messages between the caller and user_id, oldest first. Messages to the caller are marked read.
// @Tags         messages
// @Produce      json
// @Param        user_id  path      string  true  "Counterpart uuid"
// @Success      200      {object}  response.Response{data=[]domain.Message}
// @Router       /messages/{user_id} [get]
// @Security     BearerAuth
func (h *MessageHandler) Thread(c *gin.Context) {
	msgs, err := h.messageUC.ListBetween(c.Request.Context(), middleware.Principal(c), c.Param("user_id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Messages retrieved", msgs)
}

// Conversations godoc
// @Summary      Conversation list
// @Tags         messages
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.ConversationSummary}
// @Router       /conversations [get]
// @Security     BearerAuth
func (h *MessageHandler) Conversations(c *gin.Context) {
	summaries, err := h.messageUC.ListConversations(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Conversations retrieved", summaries)
}
