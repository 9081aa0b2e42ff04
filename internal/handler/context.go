package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
)

// ContextAccountKey holds the authenticated *model.Account.
const ContextAccountKey = "account"

func SetAccount(c *gin.Context, account *model.Account) {
	c.Set(ContextAccountKey, account)
}

// CurrentAccount returns the caller attached by the auth middleware, or nil
// on public routes.
func CurrentAccount(c *gin.Context) *model.Account {
	v, ok := c.Get(ContextAccountKey)
	if !ok {
		return nil
	}
	account, _ := v.(*model.Account)
	return account
}
