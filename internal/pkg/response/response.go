package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type body struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, body{Code: 0, Data: data})
}

func Error(c *gin.Context, status int, code int, message string) {
	c.JSON(status, body{Code: code, Message: message})
}
