package api

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"smartoffice/auth"
	"smartoffice/internal/db"
	"smartoffice/internal/models"
	"smartoffice/internal/web/middleware"
	webModels "smartoffice/internal/web/models"
)

func RegisterAuthRoutes(router *gin.Engine, authModule *auth.AuthModule, middlewareManager *middleware.MiddlewareManager, dbConn *db.DB) {
	r := router.Group("/auth")
	{
		r.POST("/login", func(c *gin.Context) {
			var loginRequest webModels.LoginRequest
			if err := c.ShouldBindJSON(&loginRequest); err != nil {
				c.JSON(400, gin.H{"error": "Invalid request"})
				return
			}
			token, user, err := authModule.Login(c, loginRequest.Username, loginRequest.Password, loginRequest.Role)
			if err != nil {
				c.JSON(401, gin.H{"error": err.Error()})
				return
			}
			details, _ := json.Marshal(gin.H{"role": user.Role})
			dbConn.LogActivity(c, models.ActivityEntry{
				Type:      models.ActivityAuth,
				Action:    "User logged in",
				Details:   details,
				Timestamp: time.Now(),
				User:      user.Username,
			})
			c.JSON(200, gin.H{"token": token, "user": user})
		})

		r.POST("/logout", middlewareManager.RequireAuth(), func(c *gin.Context) {
			token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
			if err := authModule.Logout(c, token); err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
			dbConn.LogActivity(c, models.ActivityEntry{
				Type:      models.ActivityAuth,
				Action:    "User logged out",
				Timestamp: time.Now(),
				User:      c.GetString("username"),
			})
			c.JSON(200, gin.H{"message": "Logged out"})
		})
	}
}
