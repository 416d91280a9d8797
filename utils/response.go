package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SendError(c *gin.Context, status int, err string) {
	c.JSON(status, ErrorResponse{
		Error: err,
		Code:  status,
	})
}

func SendValidationError(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Validation failed",
		Message: err,
		Code:    http.StatusBadRequest,
	})
}

func SendSuccess(c *gin.Context, message string, data interface{}) {
	response := SuccessResponse{
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(http.StatusOK, response)
}

func SendCreated(c *gin.Context, message string, data interface{}) {
	response := SuccessResponse{
		Message: message,
		Data:    data,
	}
	c.JSON(http.StatusCreated, response)
}
