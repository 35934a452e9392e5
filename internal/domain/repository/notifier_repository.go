package repository

import (
	"context"

	"autocare-service/internal/domain/entity"
)

// NotifierRepository defines the interface for outbound customer
// notifications. Send failures are best-effort by contract: callers log
// and count them but never roll back the mutation that triggered them.
type NotifierRepository interface {
	Send(ctx context.Context, recipientEmail string, kind entity.TemplateKind, tmplCtx entity.TemplateContext) error
}
