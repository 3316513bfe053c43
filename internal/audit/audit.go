package audit

import (
	"context"

	"github.com/StewbeStew/CrowdCastr/pkg/log"
)

// Audit actions for operator-visible state changes.
const (
	ActionRegister        = "session.register"
	ActionGoLive          = "live.promote"
	ActionLiveCleared     = "live.clear"
	ActionDisplaySettings = "settings.display"
	ActionMobileSettings  = "settings.mobile"
	ActionSponsorsReplace = "sponsors.replace"
	ActionSponsorUpload   = "sponsors.upload"
)

// Field constants for audit entries.
const (
	FieldAction = "action"
	FieldDetail = "detail"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action string, sessionID string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldSessionID, sessionID).
		Msg(msg)
}

// LogWithDetail emits an audit log with extra detail field.
func LogWithDetail(ctx context.Context, action string, sessionID string, detail string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldSessionID, sessionID).
		Str(FieldDetail, detail).
		Msg(msg)
}
