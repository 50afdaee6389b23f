package middleware

import (
	"net/http"
	"strings"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/repositories"
	"busbooking/internal/services"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Auth gates routes that require an authenticated principal.
type Auth struct {
	Sessions services.SessionService
	Users    repositories.UserRepository
}

// RequireAuth parses the bearer token and re-resolves the user against the
// identity store, so a session whose backing user disappeared is treated as
// anonymous rather than trusted. The store's current username wins over the
// token snapshot for booking attribution.
func (a Auth) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			abortUnauthenticated(c, "login required")
			return
		}

		principal, err := a.Sessions.Parse(raw)
		if err != nil {
			abortUnauthenticated(c, "invalid or expired session")
			return
		}

		user, err := a.Users.FindByID(c.Request.Context(), principal.UserID)
		if err != nil {
			if domain.IsNotFound(err) {
				abortUnauthenticated(c, "session no longer valid")
				return
			}
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "identity store unavailable"})
			return
		}

		c.Set(principalKey, models.Principal{
			UserID:   user.ID,
			Username: user.Username,
			Role:     user.Role,
		})
		c.Next()
	}
}

// RequireRoles allows only principals whose role is in allowedRoles. It must
// run after RequireAuth.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			abortUnauthenticated(c, "login required")
			return
		}
		if _, ok := allowed[strings.ToLower(p.Role)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// GetPrincipal extracts the authenticated principal from the gin context.
func GetPrincipal(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// abortUnauthenticated returns 401 plus a redirect hint so browser clients
// can send the user to the login page, mirroring the redirect-on-anonymous
// behavior of the session-cookie frontend.
func abortUnauthenticated(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":    msg,
		"redirect": "/login",
	})
}
