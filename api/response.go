package api

import (
	"errors"
	"net/http"

	"moneybook/middleware"
	"moneybook/repository"
	"moneybook/service"

	"github.com/gin-gonic/gin"
)

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	List     interface{} `json:"list"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401 错误响应
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// InternalError 500 错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict 409 错误响应
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// badInput 可以直接展示给用户的业务校验错误
var badInput = []error{
	service.ErrInvalidAmount,
	service.ErrInvalidFrequency,
	service.ErrInvalidType,
	service.ErrMissingStartDate,
	service.ErrInvalidDateRange,
	service.ErrSameAccount,
	service.ErrInsufficientFunds,
	service.ErrInactiveAccount,
	service.ErrRuleExhausted,
	service.ErrEmptySelection,
}

// ServiceError 把服务层错误映射成 HTTP 响应
func ServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "记录不存在")
		return
	case errors.Is(err, repository.ErrCursorConflict):
		Conflict(c, "数据已被其他请求修改，请重试")
		return
	}
	for _, target := range badInput {
		if errors.Is(err, target) {
			BadRequest(c, target.Error())
			return
		}
	}
	middleware.GetLogger(c).WithError(err).Error(fallback)
	InternalError(c, SafeErrorMessage(err, fallback))
}
