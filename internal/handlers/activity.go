package handlers

import (
	"github.com/daijiahui66/ADDoc/internal/middleware"
	"github.com/daijiahui66/ADDoc/internal/services"
	"github.com/daijiahui66/ADDoc/internal/utils"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activityService *services.ActivityService
}

func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (h *ActivityHandler) Latest(c *gin.Context) {
	entries, err := h.activityService.Latest(queryInt(c, "limit", 10))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, entries)
}

// Heatmap 返回当前用户每天的活动次数。
func (h *ActivityHandler) Heatmap(c *gin.Context) {
	heatmap, err := h.activityService.Heatmap(middleware.CurrentUser(c).ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, heatmap)
}
