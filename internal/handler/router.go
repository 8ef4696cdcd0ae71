package handler

import (
	"genesis-backend/internal/gateway"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything mounted under the HTTP listener.
type Handlers struct {
	Generate    *GenerateHandler
	Compile     *CompileHandler
	Session     *SessionHandler
	Gateway     *gateway.Gateway
	GatewayPath string
}

// Mount registers the realtime endpoint and the /api routes on r.
func (h *Handlers) Mount(r *gin.Engine) {
	path := h.GatewayPath
	if path == "" {
		path = "/ws"
	}
	r.GET(path, gin.WrapH(h.Gateway))

	api := r.Group("/api")
	{
		api.POST("/generate", h.Generate.Generate)
		api.GET("/generate", h.Generate.GenerateInfo)
		api.POST("/generate/stream", h.Generate.Stream)

		api.POST("/compile", h.Compile.Compile)
		api.GET("/compile", h.Compile.CompileInfo)
		api.POST("/render", h.Compile.Render)

		api.GET("/ws", h.Session.WSInfo(path))

		api.GET("/sessions", h.Session.ListSessions)
		session := api.Group("/session")
		{
			session.GET("/:id", h.Session.GetSession)
			session.GET("/:id/messages", h.Session.GetMessages)
			session.DELETE("/:id", h.Session.DeleteSession)
		}
	}
}
