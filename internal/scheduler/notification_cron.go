package cron

import (
	"context"

	"github.com/Temirlan230/friendgallery/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func StartNotificationCronJobs(notificationService *services.NotificationService) {
	c := cron.New()

	// Purge notifications past their expiry
	c.AddFunc("@hourly", func() {
		err := notificationService.CleanupExpiredNotifications(context.Background())
		if err != nil {
			logrus.WithError(err).Error("CleanupExpiredNotifications failed")
		}
	})

	c.Start()
}
