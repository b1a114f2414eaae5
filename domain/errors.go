package domain

import "errors"

// ErrNotFound lo devuelven los stores cuando la fila no existe.
var ErrNotFound = errors.New("not found")

// Kind clasifica fallas para que el código que llama pueda distinguir,
// por ejemplo, "carrito vacío" de "red caída". Los mensajes siguen siendo
// el texto visible al usuario; el Kind es para decisiones programáticas.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindCredentials
	KindConflict
	KindNotFound
	KindTransport
	KindEmptyCart
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindCredentials:
		return "credentials"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindTransport:
		return "transport"
	case KindEmptyCart:
		return "empty_cart"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf extrae el Kind de un error; KindInternal si no es un *Error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	return KindInternal
}

// Mensaje devuelve el texto para la UI, con un genérico de respaldo.
func Mensaje(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
