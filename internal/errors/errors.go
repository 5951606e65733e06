package errors

import (
	stdErrors "errors"
	"fmt"
	"log/slog"
)

// Code 是服务内统一使用的错误码。
type Code string

const (
	CodeUnknown               Code = "UNKNOWN"
	CodeInvalidArgument       Code = "INVALID_ARGUMENT"
	CodeNotFound              Code = "NOT_FOUND"
	CodeConflict              Code = "CONFLICT"
	CodeChainNotSupported     Code = "CHAIN_NOT_SUPPORTED"
	CodeInitializationFailure Code = "INITIALIZATION_FAILURE"
)

// Severity 决定错误被记录时使用的日志级别。
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Level 把严重程度映射为 slog 日志级别。
func (s Severity) Level() slog.Level {
	switch s {
	case SeverityCritical:
		return slog.LevelError
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Attributes 是错误码的默认描述。
type Attributes struct {
	Message  string
	Severity Severity
	// Status 用于 REST 接口的 HTTP 状态码。
	Status int
}

var attributes = map[Code]Attributes{
	CodeUnknown:               {Message: "unknown error", Severity: SeverityCritical, Status: 500},
	CodeInvalidArgument:       {Message: "invalid argument", Severity: SeverityInfo, Status: 400},
	CodeNotFound:              {Message: "resource not found", Severity: SeverityInfo, Status: 404},
	CodeConflict:              {Message: "resource conflict", Severity: SeverityWarning, Status: 409},
	CodeChainNotSupported:     {Message: "chain not supported", Severity: SeverityInfo, Status: 404},
	CodeInitializationFailure: {Message: "service not initialized", Severity: SeverityWarning, Status: 503},
}

// AttributesOf 返回错误码的默认描述，未知错误码按 UNKNOWN 处理。
func AttributesOf(code Code) Attributes {
	if attr, ok := attributes[code]; ok {
		return attr
	}
	return attributes[CodeUnknown]
}

// Error 携带错误码、可选的底层错误与元数据。
type Error struct {
	code     Code
	message  string
	cause    error
	metadata map[string]string
	severity Severity
}

// Option 修改新建的 Error。
type Option func(*Error)

// WithMetadata 附加一条键值信息，记录日志时一并输出。
func WithMetadata(key, value string) Option {
	return func(e *Error) {
		if e.metadata == nil {
			e.metadata = make(map[string]string)
		}
		e.metadata[key] = value
	}
}

// WithSeverity 覆盖错误码的默认严重程度。
func WithSeverity(sev Severity) Option {
	return func(e *Error) {
		e.severity = sev
	}
}

// New 创建错误；message 为空时使用错误码的默认描述。
func New(code Code, message string, opts ...Option) *Error {
	if message == "" {
		message = AttributesOf(code).Message
	}
	e := &Error{code: code, message: message}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Wrap 与 New 相同，但保留 cause 以便 errors.Is/As 继续匹配。
func Wrap(code Code, cause error, message string, opts ...Option) *Error {
	e := New(code, message, opts...)
	e.cause = cause
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause == nil {
		return fmt.Sprintf("[%s] %s", e.code, e.message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is 按错误码比较，使 errors.Is(err, New(code, "")) 成立。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.code == t.code
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeUnknown
	}
	return e.code
}

// Message 返回不含错误码与 cause 的描述，适合直接返回给调用方。
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// Metadata 返回元数据的副本。
func (e *Error) Metadata() map[string]string {
	if e == nil || len(e.metadata) == 0 {
		return nil
	}
	out := make(map[string]string, len(e.metadata))
	for k, v := range e.metadata {
		out[k] = v
	}
	return out
}

func (e *Error) Severity() Severity {
	if e == nil {
		return SeverityInfo
	}
	if e.severity != "" {
		return e.severity
	}
	return AttributesOf(e.code).Severity
}

// From 在错误链中查找 *Error。
func From(err error) (*Error, bool) {
	var target *Error
	if err == nil || !stdErrors.As(err, &target) {
		return nil, false
	}
	return target, true
}

// CodeOf 返回错误链中的错误码，没有时为 UNKNOWN。
func CodeOf(err error) Code {
	if e, ok := From(err); ok {
		return e.Code()
	}
	return CodeUnknown
}

// SeverityOf 返回错误链中的严重程度，普通错误视为 UNKNOWN。
func SeverityOf(err error) Severity {
	if e, ok := From(err); ok {
		return e.Severity()
	}
	return AttributesOf(CodeUnknown).Severity
}

// StatusOf 返回错误对应的 HTTP 状态码。
func StatusOf(err error) int {
	return AttributesOf(CodeOf(err)).Status
}

// LogAttrs 返回记录 err 时使用的日志字段：错误本身、错误码以及元数据。
func LogAttrs(err error) []any {
	attrs := []any{"error", err, "code", string(CodeOf(err))}
	if e, ok := From(err); ok {
		if md := e.Metadata(); len(md) > 0 {
			attrs = append(attrs, "metadata", md)
		}
	}
	return attrs
}
