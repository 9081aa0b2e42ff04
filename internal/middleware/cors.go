package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type CORSConfig struct {
	AllowOrigins     []string
	AllowCredentials bool
	MaxAge           time.Duration
}

func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		MaxAge:       12 * time.Hour,
	}
}

// CORS builds the gin-contrib/cors handler. An empty origin list or a "*"
// entry allows every origin.
func CORS(config CORSConfig) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			HeaderXRequestID,
		},
		ExposeHeaders:    []string{"Content-Length", HeaderXRequestID},
		AllowCredentials: config.AllowCredentials,
		MaxAge:           config.MaxAge,
	}

	allowAll := len(config.AllowOrigins) == 0
	for _, o := range config.AllowOrigins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = config.AllowOrigins
	}
	return cors.New(cfg)
}
