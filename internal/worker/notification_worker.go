package worker

import (
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/service"
)

// StartNotificationWorker subscribes the notification service to workflow events.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
