// Package v1 exposes the schedule service over JSON HTTP.
package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/hyeonlog/naldo/internal/profile"
	"github.com/hyeonlog/naldo/server/service/schedule"
	"github.com/hyeonlog/naldo/store"
)

type APIV1Service struct {
	Profile         *profile.Profile
	Store           *store.Store
	ScheduleService schedule.Service
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, scheduleService schedule.Service) *APIV1Service {
	return &APIV1Service{
		Profile:         profile,
		Store:           store,
		ScheduleService: scheduleService,
	}
}

// RegisterRoutes mounts the v1 API on the given Echo instance.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	group := echoServer.Group("/api/v1")
	group.POST("/schedules", s.CreateSchedule)
	group.POST("/schedules/query", s.QuerySchedules)
}
