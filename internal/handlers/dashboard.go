package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/seoportal-backend/internal/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (dh *DashboardHandler) Get(c *gin.Context) {
	dash, err := dh.dashboardService.GetDashboard(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"dashboard": dash})
}
