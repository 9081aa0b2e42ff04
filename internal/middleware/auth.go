package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

// Authenticator resolves a bearer token to an account.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Account, error)
}

type AuthMiddleware struct {
	authService Authenticator
}

func NewAuthMiddleware(authService Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate rejects the request unless the Authorization header carries
// a valid token, and attaches the caller's account to the context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := httputil.BearerToken(c.GetHeader("Authorization"))

		account, err := m.authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		handler.SetAccount(c, account)
		c.Next()
	}
}
