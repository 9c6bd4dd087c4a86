package config

import (
	"time"

	"main/utils"
)

type AuthConfig struct {
	JWTSecretKey         string
	JWTExpiration        time.Duration
	RefreshExpiration    time.Duration
	SessionDuration      time.Duration
	GoogleClientID       string
	GoogleTokenInfoURL   string
	MaxSessionsPerUser   int
	SessionInactivityCap time.Duration
}

func LoadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecretKey:         utils.GetEnvAsString("JWT_SECRET_KEY", ""),
		JWTExpiration:        utils.GetEnvAsDuration("JWT_EXPIRATION_TIME", time.Hour),
		RefreshExpiration:    utils.GetEnvAsDuration("REFRESH_TOKEN_EXPIRATION_TIME", 7*24*time.Hour),
		SessionDuration:      utils.GetEnvAsDuration("SESSION_DURATION", 24*time.Hour),
		GoogleClientID:       utils.GetEnvAsString("GOOGLE_CLIENT_ID", ""),
		GoogleTokenInfoURL:   utils.GetEnvAsString("GOOGLE_TOKENINFO_URL", "https://oauth2.googleapis.com/tokeninfo"),
		MaxSessionsPerUser:   utils.GetEnvAsInt("MAX_SESSIONS_PER_USER", 5),
		SessionInactivityCap: utils.GetEnvAsDuration("SESSION_INACTIVITY_CAP", 48*time.Hour),
	}
}

type RedisConfig struct {
	URL          string
	ListCacheTTL time.Duration
}

func LoadRedisConfig() RedisConfig {
	return RedisConfig{
		URL:          utils.GetEnvAsString("REDIS_URL", "redis://localhost:6379/0"),
		ListCacheTTL: utils.GetEnvAsDuration("LIST_CACHE_TTL", 5*time.Minute),
	}
}

type AttachmentConfig struct {
	MaxWidth    int
	MaxHeight   int
	JPEGQuality int
	MaxUpload   int64
}

func LoadAttachmentConfig() AttachmentConfig {
	return AttachmentConfig{
		MaxWidth:    utils.GetEnvAsInt("IMAGE_MAX_WIDTH", 1280),
		MaxHeight:   utils.GetEnvAsInt("IMAGE_MAX_HEIGHT", 1280),
		JPEGQuality: utils.GetEnvAsInt("IMAGE_JPEG_QUALITY", 80),
		MaxUpload:   int64(utils.GetEnvAsInt("MAX_UPLOAD_BYTES", 10<<20)),
	}
}

type PushConfig struct {
	Endpoint  string
	ServerKey string
	Timeout   time.Duration
}

func LoadPushConfig() PushConfig {
	return PushConfig{
		Endpoint:  utils.GetEnvAsString("FCM_ENDPOINT", "https://fcm.googleapis.com/fcm/send"),
		ServerKey: utils.GetEnvAsString("FCM_SERVER_KEY", ""),
		Timeout:   utils.GetEnvAsDuration("FCM_TIMEOUT", 10*time.Second),
	}
}
