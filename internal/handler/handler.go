package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WilliamDu1981/angular2club/internal/account"
	"github.com/WilliamDu1981/angular2club/internal/federation"
	"github.com/WilliamDu1981/angular2club/internal/provider"
	"github.com/WilliamDu1981/angular2club/internal/session"
)

type Handler struct {
	accounts   *account.Service
	providers  *provider.Registry
	federation *federation.Flow
	issuer     *session.Issuer
	sessions   session.Store
}

func NewHandler(
	accounts *account.Service,
	providers *provider.Registry,
	flow *federation.Flow,
	issuer *session.Issuer,
	sessions session.Store,
) *Handler {
	return &Handler{
		accounts:   accounts,
		providers:  providers,
		federation: flow,
		issuer:     issuer,
		sessions:   sessions,
	}
}

// RegisterRoutes mounts the account and federation endpoints.
// requireAuth guards the self-service routes.
func (h *Handler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	users := r.Group("/api/users")
	users.GET("/unique", h.unique)
	users.POST("/signup", h.signup)
	users.GET("/active/:id", h.activate)
	users.POST("/signin", h.signin)
	users.PUT("", requireAuth, h.update)

	r.GET("/oauth/login/:provider", h.oauthLogin)
	r.GET("/oauth/callback/:provider", h.oauthCallback)
	r.POST("/auth/logout", h.logout)
}

// policyReject sends a 403 with the machine-readable code in the
// X-Error header, the shape every policy rejection shares.
func policyReject(c *gin.Context, code string, msg any) {
	c.Header("X-Error", code)
	c.JSON(http.StatusForbidden, gin.H{
		"result": false,
		"msg":    msg,
	})
}

func (h *Handler) logout(c *gin.Context) {
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		// best-effort: an already-gone session still logs out
		_ = h.sessions.Delete(c.Request.Context(), cookie.Value)
	}

	session.ClearCookie(c.Writer, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	c.Status(http.StatusNoContent)
}
