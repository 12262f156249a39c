package app

import (
	"github.com/yungbote/lumen-backend/internal/platform/envutil"
	"github.com/yungbote/lumen-backend/internal/platform/logger"
)

type Config struct {
	JWTSecretKey string
	ServerPort   int
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		JWTSecretKey: envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		ServerPort:   envutil.Int("SERVER_PORT", 8080),
	}
	if cfg.JWTSecretKey == "defaultsecret" {
		log.Warn("JWT_SECRET_KEY not set, using insecure default")
	}
	return cfg
}
