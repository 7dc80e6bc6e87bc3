package log

import "sort"

// Field names shared by every log line.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldQuery       = "query"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldReferer     = "referer"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldEvent       = "event"
	FieldPrincipalID = "principal_id"
	FieldUsername    = "username"
	FieldEntryKind   = "entry_kind"
	FieldEntryID     = "entry_id"
	FieldDate        = "date"
)

// Components
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentTracker  = "tracker"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentSecurity = "security"
	ComponentBackend  = "backend"
)

// Operations
const (
	OpExport   = "export"
	OpShutdown = "shutdown"
)

// LogFields collects attributes before they are handed to slog.
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithClientIP(ip string) LogFields {
	if ip != "" {
		f[FieldClientIP] = ip
	}
	return f
}

// WithError records err.Error(); nil is ignored.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithPrincipal(id int64) LogFields {
	f[FieldPrincipalID] = id
	return f
}

// WithEntry adds the entry kind plus id and date when they are set.
func (f LogFields) WithEntry(kind string, id int64, date string) LogFields {
	f[FieldEntryKind] = kind
	if id > 0 {
		f[FieldEntryID] = id
	}
	if date != "" {
		f[FieldDate] = date
	}
	return f
}

// Merge copies every key of other into f
func (f LogFields) Merge(other map[string]any) LogFields {
	for k, v := range other {
		f[k] = v
	}
	return f
}

// WithHTTPRequest adds the request line. Empty agent and referer are skipped.
func (f LogFields) WithHTTPRequest(method, path, query, userAgent, referer string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	if query != "" {
		f[FieldQuery] = query
	}
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	if referer != "" {
		f[FieldReferer] = referer
	}
	return f
}

func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
	return f
}

// ToSlice flattens f into slog key/value pairs in key order.
func (f LogFields) ToSlice() []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	slice := make([]any, 0, len(f)*2)
	for _, k := range keys {
		slice = append(slice, k, f[k])
	}
	return slice
}
