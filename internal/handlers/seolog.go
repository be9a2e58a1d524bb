package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/seoportal-backend/internal/repos"
	"github.com/yungbote/seoportal-backend/internal/services"
)

type SEOLogHandler struct {
	logService services.SEOLogService
}

func NewSEOLogHandler(logService services.SEOLogService) *SEOLogHandler {
	return &SEOLogHandler{logService: logService}
}

func (lh *SEOLogHandler) Create(c *gin.Context) {
	var req services.SEOLogInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	entry, err := lh.logService.CreateLog(c.Request.Context(), req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"log": entry})
}

func (lh *SEOLogHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log id"})
		return
	}
	var req services.SEOLogInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	entry, err := lh.logService.UpdateLog(c.Request.Context(), id, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"log": entry})
}

func (lh *SEOLogHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log id"})
		return
	}
	entry, err := lh.logService.GetLog(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"log": entry})
}

func (lh *SEOLogHandler) List(c *gin.Context) {
	filter := repos.SEOLogFilter{
		Search:   c.Query("search"),
		WorkType: c.Query("work_type"),
	}
	if raw := c.Query("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
			return
		}
		filter.ProjectID = &id
	}
	if raw := c.Query("date_from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_from, want YYYY-MM-DD"})
			return
		}
		filter.DateFrom = &from
	}
	// An explicit date_from wins over a named range.
	if raw := c.Query("date_range"); raw != "" && filter.DateFrom == nil {
		from, ok := dateRangeStart(raw, time.Now().UTC())
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_range, want today, week or month"})
			return
		}
		filter.DateFrom = &from
	}
	logs, err := lh.logService.ListLogs(c.Request.Context(), filter)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"logs": logs})
}

// dateRangeStart maps a named range onto the earliest work date it covers.
func dateRangeStart(name string, now time.Time) (time.Time, bool) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch name {
	case "today":
		return day, true
	case "week":
		return day.AddDate(0, 0, -7), true
	case "month":
		return day.AddDate(0, -1, 0), true
	}
	return time.Time{}, false
}

func (lh *SEOLogHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log id"})
		return
	}
	if err := lh.logService.DeleteLog(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
