package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// AuditLog records privileged actions: manual balance corrections, bulk
// rejections, server lifecycle.
type AuditLog struct {
	Action   string
	ActorID  string
	TargetID string
	Message  string
	Meta     map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}

type StdoutAuditLogger struct{}

func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	zap.L().Named("audit").Info("audit event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("actor_id", entry.ActorID),
		zap.String("target_id", entry.TargetID),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}
