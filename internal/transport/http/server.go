package http

import (
	stdhttp "net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/raunak51299/LocalChatApp/internal/config"
	"github.com/raunak51299/LocalChatApp/internal/core"
	"github.com/raunak51299/LocalChatApp/internal/store"
)

// NewServer builds the HTTP server: REST API, QR endpoint and the
// websocket upgrade path.
func NewServer(hub *core.Hub, st store.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST"}
	router.Use(cors.New(corsConfig))

	roomHandlers := NewRoomHandlers(st, cfg.MessagePageSize, logger)
	qrHandler := NewQRHandler(cfg.PublicURL, logger)

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	api := router.Group("/api")
	{
		api.GET("/rooms", roomHandlers.ListRooms)
		api.POST("/rooms", roomHandlers.CreateRoom)
		api.GET("/rooms/:roomId/messages", roomHandlers.ListMessages)
		api.GET("/qr", qrHandler.GetQR)
	}

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg.AllowedOrigins, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
