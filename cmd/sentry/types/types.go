package types

// Level is the severity attached to a Sentry event
type Level string

const (
	LevelFatal   Level = "fatal"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
	LevelDebug   Level = "debug"
)

// Levels lists every severity accepted by the store endpoint
var Levels = []Level{LevelFatal, LevelError, LevelWarning, LevelInfo, LevelDebug}

// Event is the document POSTed to the Sentry store endpoint.
// Field order is the key order on the wire. Nil maps and slices are left out,
// empty ones are sent as given.
type Event struct {
	Logger      string            `json:"logger"`
	Platform    string            `json:"platform"`
	Level       Level             `json:"level,omitempty"`
	Extra       map[string]any    `json:"extra,omitzero"`
	Fingerprint []string          `json:"fingerprint,omitzero"`
	Exception   ExceptionList     `json:"exception"`
	Tags        map[string]string `json:"tags,omitzero"`
	User        User              `json:"user"`
	Request     Request           `json:"request"`
	ServerName  string            `json:"server_name,omitempty"`
	Transaction string            `json:"transaction,omitempty"`
	Release     string            `json:"release,omitempty"`
	Dist        string            `json:"dist,omitempty"`
	Environment string            `json:"environment,omitempty"`
	Breadcrumbs []Breadcrumb      `json:"breadcrumbs,omitzero"`
}

// ExceptionList wraps the reported exceptions
type ExceptionList struct {
	Values []Exception `json:"values"`
}

// Exception describes one error and the stack it was raised from
type Exception struct {
	Type       string     `json:"type"`
	Value      string     `json:"value"`
	Stacktrace Stacktrace `json:"stacktrace"`
}

// Stacktrace holds frames ordered outermost first, crashing frame last
type Stacktrace struct {
	Frames []Frame `json:"frames"`
}

// Frame represents a single frame in a stack trace
type Frame struct {
	Function string     `json:"function,omitempty"`
	Filename string     `json:"filename,omitempty"`
	Lineno   int        `json:"lineno,omitempty"`
	Colno    int        `json:"colno,omitempty"`
	InApp    bool       `json:"in_app"`
	Vars     *FrameVars `json:"vars,omitempty"`
}

// FrameVars is a textual snapshot of the frame's invocation context
type FrameVars struct {
	This string `json:"this,omitempty"`
}

// User identifies the user affected by the error
type User struct {
	ID        string `json:"id,omitempty"`
	Email     string `json:"email,omitempty"`
	Username  string `json:"username,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
}

// Request contains the HTTP request being served when the error happened
type Request struct {
	URL         string            `json:"url,omitempty"`
	Method      string            `json:"method,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	QueryString string            `json:"query_string,omitempty"`
	Cookies     string            `json:"cookies,omitempty"`
	Env         map[string]string `json:"env,omitempty"`
}

// Breadcrumb records an application event that happened before the error.
// It is forwarded to the collector as is.
type Breadcrumb struct {
	Timestamp float64        `json:"timestamp,omitempty"`
	Type      string         `json:"type,omitempty"`
	Category  string         `json:"category,omitempty"`
	Message   string         `json:"message,omitempty"`
	Level     Level          `json:"level,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}
