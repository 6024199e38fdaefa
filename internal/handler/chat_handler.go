package handler

import (
	"net/http"

	"fleetadmin/internal/middleware"
	"fleetadmin/internal/service"
	"fleetadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type chatStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	chats := router.Group("/chats", middleware.RequirePermission("chat"))
	{
		chats.GET("", h.ListThreads)
		chats.POST("", h.StartThread)
		chats.GET("/:id", h.GetThread)
		chats.POST("/:id/messages", h.SendMessage)
		chats.PATCH("/:id/status", h.UpdateThreadStatus)
	}
}

// ListThreads returns chat threads, most recently active first
// @Summary      List chats
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "active, pending or resolved"
// @Param        search  query     string  false  "Search customer or subject"
// @Success      200     {object}  response.Response{data=[]model.ChatThread}
// @Router       /api/chats [get]
func (h *ChatHandler) ListThreads(c *gin.Context) {
	q, _, _ := listRequest(c)
	threads, err := h.chatService.ListThreads(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, threads))
}

// StartThread opens a thread with the customer's first message
// @Summary      Start chat
// @Tags         chats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.StartThreadRequest  true  "First message"
// @Success      201      {object}  response.Response{data=model.ChatThread}
// @Router       /api/chats [post]
func (h *ChatHandler) StartThread(c *gin.Context) {
	var req service.StartThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	thread, err := h.chatService.StartThread(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, thread))
}

// GetThread returns a thread with its messages and marks it read
// @Summary      Get chat
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Thread ID"
// @Success      200  {object}  response.Response{data=model.ChatThread}
// @Failure      404  {object}  response.Response
// @Router       /api/chats/{id} [get]
func (h *ChatHandler) GetThread(c *gin.Context) {
	thread, err := h.chatService.GetThread(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, thread))
}

// SendMessage appends a message and pushes it to connected dashboards
// @Summary      Send chat message
// @Tags         chats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Thread ID"
// @Param        payload  body      service.SendMessageRequest  true  "Message"
// @Success      201      {object}  response.Response{data=model.ChatMessage}
// @Router       /api/chats/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req service.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	msg, err := h.chatService.SendMessage(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, msg))
}

// UpdateThreadStatus marks a thread active, pending or resolved
// @Summary      Change chat status
// @Tags         chats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string             true  "Thread ID"
// @Param        payload  body      chatStatusRequest  true  "Status"
// @Success      200      {object}  response.Response
// @Router       /api/chats/{id}/status [patch]
func (h *ChatHandler) UpdateThreadStatus(c *gin.Context) {
	var req chatStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.chatService.UpdateStatus(c.Request.Context(), actorFrom(c), c.Param("id"), req.Status); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"status": req.Status}))
}
