package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

type SecurityConfig struct {
	// HSTSMaxAge in seconds; zero leaves the header off, e.g. for plain
	// HTTP in development.
	HSTSMaxAge     int
	FrameOptions   string
	ReferrerPolicy string
}

func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		HSTSMaxAge:     31536000,
		FrameOptions:   "DENY",
		ReferrerPolicy: "no-referrer",
	}
}

// SecurityHeaders sets the response headers for a JSON API serving staff
// and patient data. Responses are never cacheable.
func SecurityHeaders(config SecurityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.HSTSMaxAge > 0 {
			c.Header("Strict-Transport-Security", fmt.Sprintf("max-age=%d; includeSubDomains", config.HSTSMaxAge))
		}
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", config.FrameOptions)
		c.Header("Referrer-Policy", config.ReferrerPolicy)
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
