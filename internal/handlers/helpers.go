package handlers

import (
	"net/http"
	"strconv"

	"github.com/daijiahui66/ADDoc/internal/utils"
	"github.com/daijiahui66/ADDoc/pkg/validator"

	"github.com/gin-gonic/gin"
)

// bindJSON 解析并校验请求体，失败时已写入 400 响应。
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return false
	}
	if err := validator.ValidateStruct(req); err != nil {
		utils.ValidationError(c, validator.FieldErrors(err))
		return false
	}
	return true
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.Error(c, http.StatusBadRequest, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}
