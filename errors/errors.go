package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDerive      Phase = "derive"      // layout/schema derivation
	PhaseSerialize   Phase = "serialize"   // value to slots
	PhaseDeserialize Phase = "deserialize" // slots to value
	PhaseDelete      Phase = "delete"      // slot clearing
	PhaseUpgrade     Phase = "upgrade"     // definition replacement
	PhaseParse       Phase = "parse"       // schema JSON parsing
	PhaseStorage     Phase = "storage"     // slot store access
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidValuesLength Kind = "invalid_values_length"
	KindInvalidArrayLength  Kind = "invalid_array_length"
	KindInvalidVariantValue Kind = "invalid_variant_value"
	KindVariantNotFound     Kind = "variant_not_found"
	KindIncompatibleLayout  Kind = "incompatible_layout"
	KindIncompatibleSchema  Kind = "incompatible_schema"
	KindTypeMismatch        Kind = "type_mismatch"
	KindInvalidData         Kind = "invalid_data"
	KindNotFound            Kind = "not_found"
	KindUnsupported         Kind = "unsupported"
	KindStorage             Kind = "storage"
)

// Error is the structured error type used throughout the engine
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidValuesLength reports a flat buffer with fewer remaining words than
// the layout statically requires.
func InvalidValuesLength(phase Phase, path []string, need, remaining int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidValuesLength,
		Path:   path,
		Detail: fmt.Sprintf("need %d more values, %d remaining", need, remaining),
		Value:  remaining,
	}
}

// InvalidArrayLength reports a length prefix exceeding the packing maximum.
func InvalidArrayLength(phase Phase, path []string, value any, maxBits uint) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidArrayLength,
		Path:   path,
		Detail: fmt.Sprintf("length prefix %v does not fit %d bits", value, maxBits),
		Value:  value,
	}
}

// InvalidVariantValue reports an enum selector that does not fit the
// declared discriminant width.
func InvalidVariantValue(phase Phase, path []string, value any, widthBits uint) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidVariantValue,
		Path:   path,
		Detail: fmt.Sprintf("selector %v does not fit the %d-bit discriminant", value, widthBits),
		Value:  value,
	}
}

// VariantNotFound reports an enum selector with no matching variant.
func VariantNotFound(phase Phase, path []string, selector uint64, variants int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindVariantNotFound,
		Path:   path,
		Detail: fmt.Sprintf("selector %d has no matching variant (%d declared)", selector, variants),
		Value:  selector,
	}
}

// IncompatibleLayout reports a shape or width change between definitions.
func IncompatibleLayout(path []string, resource, detail string) *Error {
	return &Error{
		Phase:  PhaseUpgrade,
		Kind:   KindIncompatibleLayout,
		Path:   path,
		Detail: fmt.Sprintf("%s: %s", resource, detail),
	}
}

// IncompatibleSchema reports an illegal member or variant evolution.
func IncompatibleSchema(path []string, resource, detail string) *Error {
	return &Error{
		Phase:  PhaseUpgrade,
		Kind:   KindIncompatibleSchema,
		Path:   path,
		Detail: fmt.Sprintf("%s: %s", resource, detail),
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, got, want string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		Detail: fmt.Sprintf("got %s, want %s", got, want),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Storage wraps a slot store failure
func Storage(phase Phase, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindStorage,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
