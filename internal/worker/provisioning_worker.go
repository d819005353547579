package worker

import (
	"github.com/spec-kit/package-service/internal/service"
)

// StartProvisioningWorker registers the provisioning handlers on the dispatcher.
func StartProvisioningWorker(notifier *service.ProvisioningNotifier) {
	if notifier == nil {
		return
	}
	notifier.RegisterHandlers()
}
