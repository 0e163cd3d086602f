package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"smartoffice/internal/models"
	"smartoffice/internal/simulator"
	"smartoffice/internal/web/middleware"
	webModels "smartoffice/internal/web/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from a different origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func RegisterMonitoringRoutes(router *gin.Engine, middlewareManager *middleware.MiddlewareManager, sim *simulator.Simulator) {
	monitoring := router.Group("/monitoring")
	{
		// The sensor stream is read-only, and browser websocket clients
		// cannot set an Authorization header.
		monitoring.GET("/sensors/ws", func(c *gin.Context) {
			conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
			if err != nil {
				log.Printf("WEB: websocket upgrade failed: %v", err)
				return
			}
			defer conn.Close()

			updates := make(chan models.SensorSnapshot, 8)
			cancel := sim.Subscribe(func(snap models.SensorSnapshot) {
				select {
				case updates <- snap:
				default:
				}
			})
			defer cancel()

			if err := conn.WriteJSON(sim.Current()); err != nil {
				return
			}

			closed := make(chan struct{})
			go func() {
				// Drain reads so close frames are processed.
				for {
					if _, _, err := conn.ReadMessage(); err != nil {
						close(closed)
						return
					}
				}
			}()
			for {
				select {
				case snap := <-updates:
					if err := conn.WriteJSON(snap); err != nil {
						return
					}
				case <-closed:
					return
				}
			}
		})

		authed := monitoring.Group("")
		authed.Use(middlewareManager.RequireAuth())
		{
			authed.GET("/sensors", func(c *gin.Context) {
				c.JSON(200, sim.Current())
			})

			authed.PUT("/sensors/:key", func(c *gin.Context) {
				var req webModels.SensorUpdateRequest
				if err := c.ShouldBindJSON(&req); err != nil {
					c.JSON(400, gin.H{"error": "Invalid request"})
					return
				}
				snap, err := sim.Set(c, c.Param("key"), *req.Value)
				if err != nil {
					c.JSON(400, gin.H{"error": err.Error()})
					return
				}
				c.JSON(200, snap)
			})
		}
	}
}
