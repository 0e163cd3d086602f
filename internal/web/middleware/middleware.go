package middleware

import (
	"smartoffice/auth"

	"github.com/redis/go-redis/v9"
)

type MiddlewareManager struct {
	redisClient *redis.Client
	auth        *auth.AuthModule
}

func NewMiddlewareManager(redisClient *redis.Client, auth *auth.AuthModule) *MiddlewareManager {
	return &MiddlewareManager{
		redisClient: redisClient,
		auth:        auth,
	}
}
