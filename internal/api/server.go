package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mishardina/sam-image-labeler/internal/container"
)

// Server HTTP-сервер сессий разметки
type Server struct {
	engine *gin.Engine
	addr   string
}

// NewServer собирает маршруты сервера
func NewServer(addr, mode string, maxUploadMB int64, services *container.Container, logger *zap.Logger) *Server {
	gin.SetMode(ginMode(mode))

	h := NewHandler(services.Sessions, services.Render, services.Export, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))
	r.Use(CORS())
	r.MaxMultipartMemory = maxUploadMB << 20

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/sessions", h.createSession)
		api.GET("/sessions/:id", h.getSession)
		api.DELETE("/sessions/:id", h.deleteSession)

		api.POST("/sessions/:id/images", h.uploadImages)
		api.GET("/sessions/:id/images", h.listImages)
		api.GET("/sessions/:id/images/:imageId", h.getImage)
		api.GET("/sessions/:id/images/:imageId/thumbnail", h.thumbnail)
		api.GET("/sessions/:id/images/:imageId/render", h.renderImage)

		api.POST("/sessions/:id/images/:imageId/points", h.addPoint)
		api.DELETE("/sessions/:id/images/:imageId/points", h.clearPoints)
		api.POST("/sessions/:id/images/:imageId/confirm", h.confirmMask)
		api.POST("/sessions/:id/images/:imageId/highlight", h.toggleHighlight)

		api.POST("/sessions/:id/classes", h.addClass)
		api.GET("/sessions/:id/classes", h.listClasses)
		api.PUT("/sessions/:id/classes/:name", h.setClassColor)

		api.GET("/sessions/:id/export", h.exportDataset)
	}

	return &Server{engine: r, addr: addr}
}

// Run запускает сервер
func (s *Server) Run() error {
	return s.engine.Run(s.addr)
}

func ginMode(mode string) string {
	if mode == "release" {
		return gin.ReleaseMode
	}
	return gin.DebugMode
}
