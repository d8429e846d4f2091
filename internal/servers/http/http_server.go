package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"marketChat/configs"
	"marketChat/internal/handlers"
	"marketChat/internal/models"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var (
	httpServer *HttpServer
	once       sync.Once
)

type HttpServer struct {
	ctx               context.Context
	configs           *configs.Config
	hub               *models.SocketHub
	router            *gin.Engine
	restHandler       *handlers.RestHandler
	socketChatHandler *handlers.SocketChatHandler
}

func NewHttpServer(
	ctx context.Context,
	configs *configs.Config,
	hub *models.SocketHub,
	restHandler *handlers.RestHandler,
	socketChatHandler *handlers.SocketChatHandler,
) *HttpServer {
	once.Do(func() {
		httpServer = &HttpServer{
			ctx:               ctx,
			configs:           configs,
			hub:               hub,
			restHandler:       restHandler,
			socketChatHandler: socketChatHandler,
		}
	})
	return httpServer
}

func (hs *HttpServer) Run() {
	hs.initializeGin()

	// restful
	hs.setupRestfulRoutes()

	// socket
	hs.socketChatHandler.StartSocket()
	hs.setupWebSocketRoutes()

	server := hs.startServer()

	// Wait for interrupt signal to gracefully shut down the server
	hs.waitForShutdown(server)
}

func (hs *HttpServer) initializeGin() {
	hs.router = gin.Default()
}

func (hs *HttpServer) setupRestfulRoutes() {
	authorized := hs.router.Group("/")
	authorized.Use(hs.restHandler.MustAuthenticateMiddleware())
	{
		authorized.POST("/messages", hs.restHandler.SendMessage)
		authorized.GET("/conversations", hs.restHandler.GetUserConversations)
		authorized.GET("/conversations/:userId/messages", hs.restHandler.GetMessageHistory)
		authorized.PUT("/messages/:id/read", hs.restHandler.MarkMessageRead)
		authorized.GET("/messages/unread", hs.restHandler.GetUnreadCount)
	}

	hs.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (hs *HttpServer) setupWebSocketRoutes() {
	hs.router.GET("/ws", hs.socketChatHandler.HandleSocketChatRoute)
}

func (hs *HttpServer) startServer() *http.Server {
	port := hs.configs.Viper.GetInt("server.port")
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: hs.router,
	}

	go func() {
		log.Printf("HTTP server started on :%d", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	return server
}

func (hs *HttpServer) waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if err := server.Shutdown(hs.ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close all WebSocket connections
	hs.hub.CloseAll()

	log.Println("Server exiting")
}
