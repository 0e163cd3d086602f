package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	HTTPPort           int    `mapstructure:"HTTP_PORT"`
	DBURL              string `mapstructure:"DB_URL"`
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	MQTTBroker         string `mapstructure:"MQTT_BROKER"`
	MQTTClientID       string `mapstructure:"MQTT_CLIENT_ID"`
	LogLevel           string `mapstructure:"LOG_LEVEL"`
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	MDNSLocalName      string `mapstructure:"MDNS_LOCAL_NAME"`
	SensorIntervalSec  int    `mapstructure:"SENSOR_INTERVAL_SECS"`
	InsightIntervalMin int    `mapstructure:"INSIGHT_INTERVAL_MINS"`
}

// LoadConfig reads configuration from .env or env vars
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded:", err)
	}

	viper.AutomaticEnv()

	viper.SetDefault("HTTP_PORT", 5069)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SENSOR_INTERVAL_SECS", 5)
	viper.SetDefault("INSIGHT_INTERVAL_MINS", 5)

	cfg := &Config{
		HTTPPort:           viper.GetInt("HTTP_PORT"),
		DBURL:              viper.GetString("DB_URL"),
		RedisAddr:          viper.GetString("REDIS_ADDR"),
		MQTTBroker:         viper.GetString("MQTT_BROKER"),
		MQTTClientID:       viper.GetString("MQTT_CLIENT_ID"),
		LogLevel:           viper.GetString("LOG_LEVEL"),
		JWTSecret:          viper.GetString("JWT_SECRET"),
		MDNSLocalName:      viper.GetString("MDNS_LOCAL_NAME"),
		SensorIntervalSec:  viper.GetInt("SENSOR_INTERVAL_SECS"),
		InsightIntervalMin: viper.GetInt("INSIGHT_INTERVAL_MINS"),
	}
	return cfg, nil
}
