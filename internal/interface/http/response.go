package httpapi

import (
	"errors"
	"net/http"

	"cpaptracker-service/internal/domain/entity"
	"cpaptracker-service/internal/usecase"

	"github.com/gin-gonic/gin"
)

// Response is the envelope of every JSON response
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created writes a 201 response
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error writes an error response. code carries the HTTP status in its leading three digits.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = http.StatusInternalServerError
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// ErrorFrom maps a domain error to its HTTP response
func ErrorFrom(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrUnknownPart), errors.Is(err, entity.ErrUnknownEquipment):
		NotFound(c, err.Error())
	case errors.Is(err, entity.ErrNoReplacementHistory):
		Conflict(c, err.Error())
	case errors.Is(err, entity.ErrInvalidInterval), errors.Is(err, usecase.ErrInvalidPart), errors.Is(err, usecase.ErrNoDataToExport),
		errors.Is(err, usecase.ErrUnknownExportColumn):
		BadRequest(c, err.Error())
	case errors.Is(err, usecase.ErrSnapshotUnavailable):
		Error(c, 50300, err.Error())
	default:
		InternalError(c, err.Error())
	}
}
