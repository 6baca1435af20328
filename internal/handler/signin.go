package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WilliamDu1981/angular2club/internal/account"
)

// Password is presence-checked only: a wrong-length guess must still
// reach the credential check and fail as PASSWORD_INCORRECT, not as a
// validation error.
type signinRequest struct {
	Account  string `json:"account" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

var signinMessages = map[string][2]string{
	"Account":  {"account", "ACCOUNT_REQUIRED_MUST_BE_EMAIL"},
	"Password": {"password", "PASSWORD_REQUIRED"},
}

func (h *Handler) signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		policyReject(c, "LOGIN_ERROR", validationMap(err, signinMessages))
		return
	}

	a, err := h.accounts.Signin(c.Request.Context(), req.Account, req.Password)
	if errors.Is(err, account.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"result": false, "msg": "USER_NOT_FOUND"})
		return
	}
	if errors.Is(err, account.ErrNotActive) {
		policyReject(c, "USER_IS_NOT_ACTIVE", "USER_IS_NOT_ACTIVE")
		return
	}
	if errors.Is(err, account.ErrPasswordIncorrect) {
		// error code only: the account record, digest included, stays out
		// of the mismatch response
		c.JSON(http.StatusBadRequest, gin.H{"result": false, "msg": "PASSWORD_INCORRECT"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"result": false, "msg": "INTERNAL_ERROR"})
		return
	}

	sess, err := h.issuer.Issue(c.Request.Context(), c.Writer, a)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"result": false, "msg": "SESSION_ERROR"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  true,
		"session": sess,
		"account": a,
	})
}
