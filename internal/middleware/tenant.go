package middleware

import (
	"net/http"

	"github.com/juliohebert/loja-sub002/internal/apierror"

	"github.com/gin-gonic/gin"
)

const TenantKey = "tenant_id"

// TenantHeader resolves the tenant on public (unauthenticated) catalog routes
// from the X-Tenant-ID header. Protected routes take the tenant from the JWT
// instead — see JWTAuth.
func TenantHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant := c.GetHeader("X-Tenant-ID")
		if tenant == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, apierror.New("Cabeçalho X-Tenant-ID é obrigatório"))
			return
		}
		c.Set(TenantKey, tenant)
		c.Next()
	}
}

// GetTenant returns the tenant id for the current request, from the JWT on
// protected routes or the X-Tenant-ID header on public ones.
func GetTenant(c *gin.Context) string {
	if claims, ok := c.Get(ClaimsKey); ok {
		if jc, ok := claims.(*JWTClaims); ok {
			return jc.TenantID
		}
	}
	return c.GetString(TenantKey)
}
