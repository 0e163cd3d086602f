package api

import (
	"github.com/gin-gonic/gin"

	"smartoffice/internal/insights"
	"smartoffice/internal/taskqueue"
	"smartoffice/internal/web/middleware"
)

func RegisterInsightRoutes(router *gin.Engine, middlewareManager *middleware.MiddlewareManager, analyzer *insights.Analyzer) {
	r := router.Group("/insights")
	r.Use(middlewareManager.RequireAuth())
	{
		r.GET("", func(c *gin.Context) {
			list, err := analyzer.List(c)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch insights"})
				return
			}
			c.JSON(200, list)
		})

		r.POST("/generate", func(c *gin.Context) {
			if err := taskqueue.EnqueueInsightGeneration(); err != nil {
				c.JSON(500, gin.H{"error": "Failed to queue analysis"})
				return
			}
			c.JSON(202, gin.H{"message": "Analysis queued"})
		})

		r.POST("/:id/apply", func(c *gin.Context) {
			rule, err := analyzer.Apply(c, c.Param("id"))
			if err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
			c.JSON(201, rule)
		})

		r.DELETE("", func(c *gin.Context) {
			if err := analyzer.Clear(c); err != nil {
				c.JSON(500, gin.H{"error": "Failed to clear insights"})
				return
			}
			c.JSON(200, gin.H{"message": "Insights cleared"})
		})
	}
}
