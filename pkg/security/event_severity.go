package security

import "go.uber.org/zap/zapcore"

// Severity is derived from the event type, never supplied by the caller.
type Severity string

const (
	SeverityInfo   Severity = "INFO"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

var eventSeverity = map[EventType]Severity{
	EventLoginSuccess:         SeverityInfo,
	EventRegistered:           SeverityInfo,
	EventAccountStatusChanged: SeverityInfo,
	EventLoginFailed:          SeverityMedium,
	EventRateLimitTriggered:   SeverityMedium,
	EventForbiddenAccess:      SeverityMedium,
	EventLoginBlocked:         SeverityHigh,
	EventBlockCreated:         SeverityHigh,
}

// SeverityOf returns the severity for event. Unknown events are MEDIUM.
func SeverityOf(event EventType) Severity {
	if s, ok := eventSeverity[event]; ok {
		return s
	}
	return SeverityMedium
}

func (s Severity) zapLevel() zapcore.Level {
	switch s {
	case SeverityInfo:
		return zapcore.InfoLevel
	case SeverityHigh:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
