package handlers

import (
	"log"
	"marketChat/internal/errs"
	"marketChat/internal/models"
	"marketChat/internal/msgs"
	"marketChat/internal/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type RestHandler struct {
	chatService *services.ChatService
	jwtKey      []byte
}

func NewRestHandler(chatService *services.ChatService, jwtKey []byte) *RestHandler {
	return &RestHandler{
		chatService: chatService,
		jwtKey:      jwtKey,
	}
}

// SendMessage godoc
// @Summary      Send a direct message
// @Description  Appends a message to the log and notifies the receiver's live sessions
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        message  body      models.SendMessageRequestBody  true  "Message to send"
// @Success      200      {object}  models.Response
// @Failure      400      {object}  models.Response
// @Failure      503      {object}  models.Response
// @Router       /messages [post]
func (rh *RestHandler) SendMessage(ctx *gin.Context) {
	var req models.SendMessageRequestBody
	if err := ctx.BindJSON(&req); err != nil {
		log.Println("Error send message json binding:", err)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidRequestBody},
		})
		return
	}

	message, sendErrs := rh.chatService.SendMessage(ctx.GetUint("user_id"), &req)
	if len(sendErrs) > 0 {
		ctx.AbortWithStatusJSON(statusCodeFor(sendErrs), models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  sendErrs,
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgMessageSentSuccessfully,
		Data:    message,
	})
}

// GetUserConversations godoc
// @Summary      List conversations
// @Description  One entry per counterpart, newest last message first, with unread counts
// @Tags         conversations
// @Produce      json
// @Param        page  query     int  false  "Page number"
// @Param        size  query     int  false  "Page size"
// @Success      200   {object}  models.Response
// @Failure      503   {object}  models.Response
// @Router       /conversations [get]
func (rh *RestHandler) GetUserConversations(ctx *gin.Context) {
	page, size := paginationParams(ctx)

	conversations, convErrs := rh.chatService.GetUserConversations(ctx.GetUint("user_id"), page, size)
	if len(convErrs) > 0 {
		ctx.AbortWithStatusJSON(statusCodeFor(convErrs), models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  convErrs,
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    conversations,
	})
}

// GetMessageHistory godoc
// @Summary      Page through a conversation
// @Description  Ascending history with the given counterpart; before_id fetches older pages
// @Tags         conversations
// @Produce      json
// @Param        userId     path      int  true   "Counterpart user id"
// @Param        limit      query     int  false  "Page size"
// @Param        before_id  query     int  false  "Fetch messages older than this id"
// @Success      200        {object}  models.Response
// @Failure      400        {object}  models.Response
// @Router       /conversations/{userId}/messages [get]
func (rh *RestHandler) GetMessageHistory(ctx *gin.Context) {
	counterpartID, err := strconv.Atoi(ctx.Param("userId"))
	if err != nil || counterpartID < 1 {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidParams},
		})
		return
	}

	limit, _ := strconv.Atoi(ctx.Query("limit"))
	beforeID, _ := strconv.Atoi(ctx.Query("before_id"))
	if beforeID < 0 {
		beforeID = 0
	}

	history, historyErrs := rh.chatService.GetMessageHistory(
		ctx.GetUint("user_id"), uint(counterpartID), limit, uint(beforeID))
	if len(historyErrs) > 0 {
		ctx.AbortWithStatusJSON(statusCodeFor(historyErrs), models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  historyErrs,
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    history,
	})
}

// MarkMessageRead godoc
// @Summary      Mark a message read
// @Description  Only the receiver may mark a message; repeating it is a no-op
// @Tags         messages
// @Produce      json
// @Param        id  path      int  true  "Message id"
// @Success      200 {object}  models.Response
// @Failure      403 {object}  models.Response
// @Failure      404 {object}  models.Response
// @Router       /messages/{id}/read [put]
func (rh *RestHandler) MarkMessageRead(ctx *gin.Context) {
	messageID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || messageID < 1 {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidParams},
		})
		return
	}

	if markErrs := rh.chatService.MarkMessageRead(uint(messageID), ctx.GetUint("user_id")); len(markErrs) > 0 {
		ctx.AbortWithStatusJSON(statusCodeFor(markErrs), models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  markErrs,
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgMessageMarkedAsRead,
	})
}

// GetUnreadCount godoc
// @Summary      Count unread messages
// @Description  Across all conversations, or one when counterpart_id is given
// @Tags         messages
// @Produce      json
// @Param        counterpart_id  query     int  false  "Scope to one counterpart"
// @Success      200             {object}  models.Response
// @Failure      503             {object}  models.Response
// @Router       /messages/unread [get]
func (rh *RestHandler) GetUnreadCount(ctx *gin.Context) {
	counterpartID, _ := strconv.Atoi(ctx.Query("counterpart_id"))
	if counterpartID < 0 {
		counterpartID = 0
	}

	count, countErrs := rh.chatService.GetUnreadCount(ctx.GetUint("user_id"), uint(counterpartID))
	if len(countErrs) > 0 {
		ctx.AbortWithStatusJSON(statusCodeFor(countErrs), models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  countErrs,
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    models.UnreadCountResponse{UnreadCount: count},
	})
}

func paginationParams(ctx *gin.Context) (int, int) {
	page, err := strconv.Atoi(ctx.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(ctx.Query("size"))
	if err != nil || size < 1 {
		size = 10
	}
	return page, size
}

func statusCodeFor(errors []error) int {
	for _, err := range errors {
		switch err {
		case errs.ErrUnauthorized:
			return http.StatusUnauthorized
		case errs.ErrForbidden:
			return http.StatusForbidden
		case errs.ErrMessageNotFound:
			return http.StatusNotFound
		case errs.ErrStoreUnavailable:
			return http.StatusServiceUnavailable
		}
	}
	return http.StatusBadRequest
}
