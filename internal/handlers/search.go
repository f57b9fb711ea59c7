package handlers

import (
	"github.com/daijiahui66/ADDoc/internal/middleware"
	"github.com/daijiahui66/ADDoc/internal/services"
	"github.com/daijiahui66/ADDoc/internal/utils"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchService *services.SearchService
	statsService  *services.StatsService
}

func NewSearchHandler(searchService *services.SearchService, statsService *services.StatsService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		statsService:  statsService,
	}
}

func (h *SearchHandler) Search(c *gin.Context) {
	results, err := h.searchService.Search(c.Query("q"), middleware.CurrentUser(c) != nil)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, results)
}

func (h *SearchHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetStats()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, stats)
}
