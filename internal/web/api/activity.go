package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"smartoffice/internal/db"
	"smartoffice/internal/storage"
	"smartoffice/internal/web/middleware"
)

func RegisterActivityRoutes(router *gin.Engine, middlewareManager *middleware.MiddlewareManager, dbConn *db.DB, store *storage.Store) {
	activity := router.Group("/activity")
	activity.Use(middlewareManager.RequireAuth())
	{
		activity.GET("", func(c *gin.Context) {
			limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
			if err != nil || limit < 1 || limit > 500 {
				limit = 50
			}
			if logType := c.Query("type"); logType != "" {
				entries, err := dbConn.GetActivityLogsByType(c, logType, limit)
				if err != nil {
					c.JSON(500, gin.H{"error": "Failed to fetch activity"})
					return
				}
				c.JSON(200, entries)
				return
			}
			entries, err := dbConn.GetActivityLogs(c, limit)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch activity"})
				return
			}
			c.JSON(200, entries)
		})
	}

	notifications := router.Group("/notifications")
	notifications.Use(middlewareManager.RequireAuth())
	{
		notifications.GET("", func(c *gin.Context) {
			list, err := store.GetNotifications(c)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch notifications"})
				return
			}
			c.JSON(200, list)
		})

		notifications.POST("/:id/read", func(c *gin.Context) {
			if err := store.MarkNotificationRead(c, c.Param("id")); err != nil {
				c.JSON(500, gin.H{"error": "Failed to mark notification"})
				return
			}
			c.JSON(200, gin.H{"message": "Marked as read"})
		})

		notifications.POST("/read-all", func(c *gin.Context) {
			if err := store.MarkAllNotificationsRead(c); err != nil {
				c.JSON(500, gin.H{"error": "Failed to mark notifications"})
				return
			}
			c.JSON(200, gin.H{"message": "All marked as read"})
		})
	}
}
