package domain

// ErrKind classifies why a core operation refused to proceed.
type ErrKind int

const (
	ErrNone ErrKind = iota
	ErrAdmissionDenied
	ErrUnknownSession
	ErrInvalidMessage
	ErrDeliveryFailure
)

// Result carries either a value or a refusal made of a kind and a human
// readable detail. It replaces ad hoc success flags plus nullable fields at
// the admission and validation boundaries.
type Result[T any] struct {
	value  T
	kind   ErrKind
	detail string
	ok     bool
}

func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

func Err[T any](kind ErrKind, detail string) Result[T] {
	return Result[T]{kind: kind, detail: detail}
}

func (r Result[T]) IsOk() bool { return r.ok }

// Value returns the carried value; meaningful only when IsOk reports true.
func (r Result[T]) Value() T { return r.value }

func (r Result[T]) Kind() ErrKind { return r.kind }

func (r Result[T]) Detail() string { return r.detail }
