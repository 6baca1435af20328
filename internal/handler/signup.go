package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WilliamDu1981/angular2club/internal/account"
)

type signupRequest struct {
	Account  string `json:"account" binding:"required,email"`
	NickName string `json:"nickName" binding:"required,min=2,max=20"`
	Password string `json:"password" binding:"required,min=6,max=20"`
}

var signupMessages = map[string][2]string{
	"Account":  {"account", "ACCOUNT_INCORRECT"},
	"NickName": {"nickName", "NICKNAME_INCORRECT"},
	"Password": {"password", "PASSWORD_LENGTH_INCORRECT"},
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		policyReject(c, "REGISTER_ERROR", validationMap(err, signupMessages))
		return
	}

	created, err := h.accounts.Signup(c.Request.Context(), account.SignupInput{
		Account:  req.Account,
		NickName: req.NickName,
		Password: req.Password,
	})
	if errors.Is(err, account.ErrAccountExists) {
		policyReject(c, "ACCOUNT_IS_EXIST", "ACCOUNT_IS_EXIST")
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"result": false, "msg": "INTERNAL_ERROR"})
		return
	}

	c.JSON(http.StatusOK, created)
}

func (h *Handler) unique(c *gin.Context) {
	handle := c.Query("account")
	if handle == "" {
		policyReject(c, "REGISTER_ERROR", map[string]string{"account": "ACCOUNT_REQUIRED"})
		return
	}

	free, err := h.accounts.Unique(c.Request.Context(), handle)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"result": false, "msg": "INTERNAL_ERROR"})
		return
	}
	if !free {
		policyReject(c, "ACCOUNT_IS_EXIST", "ACCOUNT_IS_EXIST")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": true,
		"msg":    "ACCOUNT_IS_NOT_EXIST",
	})
}
