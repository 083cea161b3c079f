package middleware

import (
	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"
)

// Authenticate resolves the Authorization header through guard and applies
// reqs. On success the caller is stored on the context.
func Authenticate(guard *usecase.Guard, reqs ...usecase.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := guard.Authorize(c.Request.Context(), c.GetHeader("Authorization"), reqs...)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyPrincipal), p)
		c.Set(string(domain.KeyUserID), p.ID)
		c.Set(string(domain.KeyUserRole), string(p.Role))

		c.Next()
	}
}

// Require applies reqs to the caller stored by Authenticate, ahead of any
// body binding.
func Require(guard *usecase.Guard, reqs ...usecase.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := guard.Check(c.Request.Context(), Principal(c), reqs...); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Principal returns the caller stored by Authenticate, or nil.
func Principal(c *gin.Context) *domain.Principal {
	v, ok := c.Get(string(domain.KeyPrincipal))
	if !ok {
		return nil
	}
	p, _ := v.(*domain.Principal)
	return p
}
