package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WilliamDu1981/angular2club/internal/account"
	"github.com/WilliamDu1981/angular2club/internal/middleware"
)

type updateRequest struct {
	Account  string  `json:"account"`
	Password string  `json:"password"`
	NickName *string `json:"nickName" binding:"omitempty,min=2,max=20"`
	Gender   *string `json:"gender"`
	Avatar   *string `json:"avatar"`
	Province *string `json:"province"`
	City     *string `json:"city"`
}

func (h *Handler) update(c *gin.Context) {
	accountID := c.GetString(middleware.AccountIDKey)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"result": false, "msg": "INVALID_REQUEST_BODY"})
		return
	}

	// The handle and credential never change through this endpoint.
	if req.Account != "" || req.Password != "" {
		policyReject(c, "FIELD_NOT_ALLOWED", "FIELD_NOT_ALLOWED")
		return
	}

	updated, err := h.accounts.UpdateProfile(c.Request.Context(), accountID, account.Changes{
		NickName: req.NickName,
		Gender:   req.Gender,
		Avatar:   req.Avatar,
		Province: req.Province,
		City:     req.City,
	})
	if errors.Is(err, account.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"result": false, "msg": "USER_NOT_FOUND"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"result": false, "msg": "INTERNAL_ERROR"})
		return
	}

	c.JSON(http.StatusOK, updated)
}
