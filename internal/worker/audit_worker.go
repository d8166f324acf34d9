package worker

import (
	"github.com/spec-kit/dine-service/internal/service"
)

// StartAuditWorker subscribes the audit trail to domain events.
func StartAuditWorker(audit *service.AuditService) {
	if audit == nil {
		return
	}
	audit.RegisterHandlers()
}
