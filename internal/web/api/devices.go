package api

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"smartoffice/internal/db"
	"smartoffice/internal/models"
	"smartoffice/internal/storage"
	"smartoffice/internal/web/middleware"
)

func RegisterDeviceRoutes(router *gin.Engine, middlewareManager *middleware.MiddlewareManager, store *storage.Store, dbConn *db.DB) {
	devices := router.Group("/devices")
	devices.Use(middlewareManager.RequireAuth())
	{
		devices.GET("", func(c *gin.Context) {
			all, err := store.GetDevices(c)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch devices"})
				return
			}
			c.JSON(200, all)
		})

		devices.PUT("/:id", func(c *gin.Context) {
			var updates map[string]any
			if err := c.ShouldBindJSON(&updates); err != nil || len(updates) == 0 {
				c.JSON(400, gin.H{"error": "Invalid request"})
				return
			}
			dev, err := store.UpdateDevice(c, c.Param("id"), updates)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to update device"})
				return
			}
			if dev == nil {
				c.JSON(404, gin.H{"error": "Device not found"})
				return
			}
			details, _ := json.Marshal(gin.H{"device": dev.Name, "updates": updates})
			dbConn.LogActivity(c, models.ActivityEntry{
				Type:      models.ActivityDeviceControl,
				Action:    "Updated device " + dev.Name,
				Details:   details,
				Timestamp: time.Now(),
				User:      c.GetString("username"),
			})
			c.JSON(200, dev)
		})
	}
}
