package handlers

import (
	"context"
	"encoding/json"
	"log"
	"marketChat/internal/enums"
	"marketChat/internal/errs"
	"marketChat/internal/models"
	redisModels "marketChat/internal/models/redis"
	socketModels "marketChat/internal/models/socket"
	"marketChat/internal/msgs"
	"marketChat/internal/services"
	"marketChat/internal/utils"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

// SocketChatHandler owns the live-delivery side: one websocket per session,
// registered on the hub under the session's user id. New messages reach the
// handler through the shared redis channel and fan out to every open session
// of the receiver. Delivery is at most once; the store covers recovery.
type SocketChatHandler struct {
	ctx            context.Context
	redis          *redis.Client
	upgrader       websocket.Upgrader
	hub            *models.SocketHub
	chatService    *services.ChatService
	jwtKey         []byte
	sendBufferSize int
}

func NewSocketChatHandler(
	redis *redis.Client,
	ctx context.Context,
	chatService *services.ChatService,
	hub *models.SocketHub,
	jwtKey []byte,
	sendBufferSize int,
) *SocketChatHandler {
	return &SocketChatHandler{
		ctx:            ctx,
		redis:          redis,
		chatService:    chatService,
		hub:            hub,
		jwtKey:         jwtKey,
		sendBufferSize: sendBufferSize,
	}
}

func (sch *SocketChatHandler) StartSocket() {
	sch.InitializeSocketUpgrader()
	go sch.HandleRedisMessages()
}

func (sch *SocketChatHandler) InitializeSocketUpgrader() {
	sch.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

func (sch *SocketChatHandler) HandleSocketChatRoute(ctx *gin.Context) {
	jwtToken := ctx.Request.Header.Get("Authorization")
	if strings.Contains(jwtToken, "Bearer") {
		jwtToken = strings.Replace(jwtToken, "Bearer ", "", 1)
	}
	if jwtToken == "" {
		// browsers cannot set headers on websocket dials
		jwtToken = ctx.Query("token")
	}
	if jwtToken == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	userInfo, err := utils.VerifyToken(jwtToken, sch.jwtKey)
	if err != nil || userInfo.ID == 0 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	sch.HandleConnections(ctx, userInfo)
}

func (sch *SocketChatHandler) HandleConnections(ctx *gin.Context, userInfo *models.Claims) {
	ws, err := sch.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	defer func(ws *websocket.Conn) {
		err := ws.Close()
		if err != nil {
			log.Printf("Error closing connection: %v", err)
		}
	}(ws)

	client := models.NewSocketClient(userInfo.ID, sch.sendBufferSize)
	sch.hub.Register(client)
	defer sch.hub.Unregister(client)

	go sch.writePump(ws, client)

	sch.handleIncomingEvents(ws, client)
}

// writePump drains the client's buffer onto the wire, in order. The loop
// ends when the hub closes the channel (unregister, slow consumer, shutdown)
// or the connection dies; closing the socket here also unblocks the reader.
func (sch *SocketChatHandler) writePump(ws *websocket.Conn, client *models.SocketClient) {
	for event := range client.Send {
		if err := ws.WriteJSON(event); err != nil {
			log.Printf("Error writing json: %v", err)
			break
		}
	}
	_ = ws.Close()
}

func (sch *SocketChatHandler) handleIncomingEvents(ws *websocket.Conn, client *models.SocketClient) {
	for {
		var event socketModels.SocketEvent
		if err := ws.ReadJSON(&event); err != nil {
			log.Printf("Error reading json: %v", err)
			return
		}

		switch event.Event {
		case enums.SOCKET_EVENT_SEND_MESSAGE:
			if sendErrs := sch.handleSendMessageEvent(event.Payload, client.UserID); len(sendErrs) > 0 {
				log.Printf("Error while handling send message event: %v", sendErrs)
			}
		case enums.SOCKET_EVENT_SEEN_MESSAGE:
			if seenErrs := sch.handleSeenMessageEvent(event.Payload, client.UserID); len(seenErrs) > 0 {
				log.Printf("Error while handling seen message event: %v", seenErrs)
			}
		default:
			log.Printf("Unknown event: %v", event.Event)
		}
	}
}

func (sch *SocketChatHandler) handleSendMessageEvent(payload json.RawMessage, senderID uint) []error {
	var req models.SendMessageRequestBody
	if err := json.Unmarshal(payload, &req); err != nil {
		return []error{errs.ErrInvalidRequest}
	}

	// the service publishes after the append commits; delivery to the
	// receiver's sessions happens through HandleRedisMessages
	if _, sendErrs := sch.chatService.SendMessage(senderID, &req); len(sendErrs) > 0 {
		return sendErrs
	}
	return nil
}

func (sch *SocketChatHandler) handleSeenMessageEvent(payload json.RawMessage, readerID uint) []error {
	var seenData socketModels.SeenMessagePayload
	if err := json.Unmarshal(payload, &seenData); err != nil {
		return []error{errs.ErrInvalidRequest}
	}

	return sch.chatService.MarkMessagesRead(seenData.MessageIds, readerID)
}

// HandleRedisMessages is the single consumer of the shared chat channel.
// Running it on one goroutine keeps per-subscriber ordering intact.
func (sch *SocketChatHandler) HandleRedisMessages() {
	ch := sch.SubscribeToChannel(sch.redis, redisModels.REDIS_CHANNEL_CHAT)
	for msg := range ch {
		var event redisModels.RedisPublishedMessage
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("Error unmarshalling message: %v", err)
			continue
		}
		sch.hub.Broadcast(event)
	}
}

func (sch *SocketChatHandler) SubscribeToChannel(redis *redis.Client, channel string) <-chan *redis.Message {
	pubsub := redis.Subscribe(sch.ctx, channel)
	_, err := pubsub.Receive(sch.ctx)
	if err != nil {
		log.Fatalf("Could not subscribe to channel: %v", err)
	}
	return pubsub.Channel()
}
