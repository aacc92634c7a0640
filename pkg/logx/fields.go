package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldEvent           = "event"
	FieldFinalPrice      = "final-price"
	FieldBasePrice       = "base-price"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldRarity          = "rarity"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldSessionID       = "session-id"
	FieldSink            = "sink"
	FieldStack           = "stack"
	FieldTraceID         = "trace-id"
	FieldTransactionID   = "transaction-id"
	FieldURL             = "url"
)
