package utils

import (
	"net/http"

	"github.com/daijiahui66/ADDoc/internal/errs"
	"github.com/daijiahui66/ADDoc/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, models.Response{
		Code:    http.StatusOK,
		Message: "成功",
		Data:    data,
	})
}

func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, models.Response{
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, models.Response{
		Code:    code,
		Kind:    string(kindForStatus(code)),
		Message: message,
	})
}

// HandleError 将 service 返回的错误映射为 HTTP 状态码和统一响应。
// 内部错误只记录日志，不把细节返回给客户端。
func HandleError(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	if kind == errs.KindInternal {
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).WithError(err).Error("request failed")
	}
	status := errs.Status(kind)
	c.JSON(status, models.Response{
		Code:    status,
		Kind:    string(kind),
		Message: errs.MessageOf(err),
	})
}

func ValidationError(c *gin.Context, errors interface{}) {
	c.JSON(http.StatusBadRequest, models.Response{
		Code:    http.StatusBadRequest,
		Kind:    string(errs.KindBadRequest),
		Message: "验证失败",
		Errors:  errors,
	})
}

func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "服务器内部错误")
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "未授权访问"
	}
	Error(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "无权限访问"
	}
	Error(c, http.StatusForbidden, message)
}

func kindForStatus(code int) errs.Kind {
	switch code {
	case http.StatusNotFound:
		return errs.KindNotFound
	case http.StatusUnauthorized:
		return errs.KindUnauthorized
	case http.StatusForbidden:
		return errs.KindForbidden
	case http.StatusBadRequest:
		return errs.KindBadRequest
	case http.StatusTooManyRequests:
		return ""
	default:
		return errs.KindInternal
	}
}
