package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WilliamDu1981/angular2club/internal/account"
)

func (h *Handler) activate(c *gin.Context) {
	_, err := h.accounts.Activate(c.Request.Context(), c.Param("id"))
	if errors.Is(err, account.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"result": false, "msg": "USER_NOT_FOUND"})
		return
	}
	if errors.Is(err, account.ErrAlreadyActive) {
		c.JSON(http.StatusBadRequest, gin.H{"result": false, "msg": "USER_IS_ACTIVED"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"result": false, "msg": "INTERNAL_ERROR"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": true,
		"msg":    "ACTIVE_USER_SUCCESS",
	})
}
