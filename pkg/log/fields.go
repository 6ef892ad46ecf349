package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Sync engine
	FieldConnID = "conn_id"
	FieldRoomID = "room_id"
	FieldSeq    = "seq"
	FieldEpoch  = "epoch"
	FieldOpType = "op_type"

	// Service
	FieldService = "service"

	// Log type (for audit log)
	FieldLogType = "log_type"
	LogTypeAudit = "audit"
)
