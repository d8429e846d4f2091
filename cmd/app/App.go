package app

import (
	"context"
	"marketChat/configs"
	"marketChat/internal/handlers"
	"marketChat/internal/interfaces"
	"marketChat/internal/models"
	"marketChat/internal/repositories"
	"marketChat/internal/servers/database"
	"marketChat/internal/servers/http"
	"marketChat/internal/services"
	"sync"

	"github.com/redis/go-redis/v9"
)

var (
	app  *App
	once sync.Once
)

type App struct {
	redis   *redis.Client
	ctx     context.Context
	configs *configs.Config
}

func GetApp() *App {
	once.Do(func() {
		app = &App{}
	})
	return app
}

func (app *App) LetsGo() {
	app.ctx = context.Background()
	app.initializeConfigs()
	app.initializeRedis()

	chatRepo, contactResolver := app.initializeRepositories()

	publisher := services.NewRedisEventPublisher(app.redis, app.ctx)
	chatService := services.NewChatService(
		chatRepo,
		contactResolver,
		publisher,
		app.configs.Viper.GetInt("chat.send_retries"),
	)

	hub := models.NewSocketHub()
	jwtKey := []byte(app.configs.Viper.GetString("jwt.secret"))

	restHandler := handlers.NewRestHandler(chatService, jwtKey)
	socketChatHandler := handlers.NewSocketChatHandler(
		app.redis,
		app.ctx,
		chatService,
		hub,
		jwtKey,
		app.configs.Viper.GetInt("chat.client_buffer_size"),
	)

	http.NewHttpServer(
		app.ctx,
		app.configs,
		hub,
		restHandler,
		socketChatHandler,
	).Run()
}

func (app *App) initializeRedis() {
	app.redis = redis.NewClient(&redis.Options{
		Addr: app.configs.Viper.GetString("redis.address"),
	})
}

func (app *App) initializeConfigs() {
	app.configs = configs.GetConfig()
}

// initializeRepositories picks the store backend from configuration. The
// in-memory backend keeps everything in process for local runs; postgres is
// the deployment target.
func (app *App) initializeRepositories() (interfaces.ChatRepository, interfaces.ContactResolver) {
	if app.configs.Viper.GetString("database.driver") == "memory" {
		return repositories.NewMemoryChatRepository(), repositories.NewMemoryProfileRepository(true)
	}
	db := database.GetDB(app.configs)
	return repositories.NewChatRepository(db), repositories.NewProfileRepository(db)
}
