package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WilliamDu1981/angular2club/internal/federation"
	"github.com/WilliamDu1981/angular2club/internal/logger"
)

func (h *Handler) oauthLogin(c *gin.Context) {
	p, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown provider"})
		return
	}

	state := generateState(c)
	c.Redirect(http.StatusFound, p.AuthCodeURL(state))
}

func (h *Handler) oauthCallback(c *gin.Context) {
	providerName := c.Param("provider")

	if _, err := h.providers.Get(providerName); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown provider"})
		return
	}

	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid state"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}

	res, err := h.federation.Callback(c.Request.Context(), providerName, code)
	if errors.Is(err, federation.ErrProvider) {
		logger.Error("federation provider leg failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.Header("X-Error", "PROVIDER_ERROR")
		c.JSON(http.StatusBadGateway, gin.H{"result": false, "msg": "PROVIDER_ERROR"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"result": false, "msg": "INTERNAL_ERROR"})
		return
	}

	if _, err := h.issuer.Issue(c.Request.Context(), c.Writer, res.Account); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"result": false, "msg": "SESSION_ERROR"})
		return
	}

	logger.Info("federated login", map[string]any{
		"provider": providerName,
		"account":  res.Account.ID,
		"created":  res.Created,
	})

	c.Redirect(http.StatusFound, "/")
}
