package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor, set on the gin context by pkg/middleware
	FieldUserID      = "user_id"
	FieldWorkspaceID = "ws_id"

	// Chat domain
	FieldChatID    = "chat_id"
	FieldMessageID = "message_id"
	FieldFile      = "file"

	// Notification pipeline
	FieldChannel   = "channel"
	FieldEvent     = "event"
	FieldReceivers = "receivers"
	FieldMissed    = "missed"
	FieldAttempt   = "attempt"

	FieldService = "service"

	FieldLogType = "log_type"
	LogTypeAudit = "audit"
)
