package cron

import (
	"context"
	"time"

	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/achievements"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// refreshTimeout bounds one background refresh cycle.
const refreshTimeout = 30 * time.Second

// StartStatsRefresh schedules periodic server-side recomputation of the
// user's progress counters, the background equivalent of the achievements
// page's refresh button. The returned cron must be stopped on teardown.
func StartStatsRefresh(service *achievements.Service, userID int64, spec string, onView func(*achievements.View)) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		view, err := service.Refresh(ctx, userID)
		if err != nil {
			logrus.WithError(err).Error("Scheduled achievements refresh failed")
			return
		}
		if onView != nil {
			onView(view)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
