package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/seoportal-backend/internal/repos"
	"github.com/yungbote/seoportal-backend/internal/services"
	"github.com/yungbote/seoportal-backend/internal/types"
)

// fakeLogService records the filter List hands to it.
type fakeLogService struct {
	services.SEOLogService
	lastFilter repos.SEOLogFilter
}

func (f *fakeLogService) ListLogs(ctx context.Context, filter repos.SEOLogFilter) ([]*types.SEOLog, error) {
	f.lastFilter = filter
	return []*types.SEOLog{}, nil
}

func newLogRouter(svc services.SEOLogService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/logs", NewSEOLogHandler(svc).List)
	return router
}

func TestDateRangeStart(t *testing.T) {
	now := time.Date(2026, 3, 15, 18, 45, 12, 0, time.UTC)
	cases := []struct {
		name string
		want time.Time
		ok   bool
	}{
		{"today", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"week", time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), true},
		{"month", time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), true},
		{"fortnight", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := dateRangeStart(tc.name, now)
		if ok != tc.ok || !got.Equal(tc.want) {
			t.Fatalf("dateRangeStart(%q): want (%v, %v) got (%v, %v)", tc.name, tc.want, tc.ok, got, ok)
		}
	}
}

func TestListMapsNamedDateRange(t *testing.T) {
	svc := &fakeLogService{}
	router := newLogRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/logs?date_range=week", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	if svc.lastFilter.DateFrom == nil {
		t.Fatalf("date_range=week did not set DateFrom")
	}
	if since := time.Since(*svc.lastFilter.DateFrom); since < 7*24*time.Hour || since > 8*24*time.Hour {
		t.Fatalf("DateFrom %v is not about a week ago", svc.lastFilter.DateFrom)
	}
}

func TestListExplicitDateFromWinsOverRange(t *testing.T) {
	svc := &fakeLogService{}
	router := newLogRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/logs?date_from=2026-01-05&date_range=today", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
	want := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	if svc.lastFilter.DateFrom == nil || !svc.lastFilter.DateFrom.Equal(want) {
		t.Fatalf("DateFrom: want=%v got=%v", want, svc.lastFilter.DateFrom)
	}
}

func TestListRejectsUnknownDateRange(t *testing.T) {
	router := newLogRouter(&fakeLogService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/logs?date_range=fortnight", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d", w.Code)
	}
}
