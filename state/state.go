// Holders de estado de presentación: uno por familia de pantallas.
// Cada holder es dueño exclusivo de su snapshot; las transiciones son
// funciones explícitas sobre un valor inmutable y cada snapshot nuevo se
// publica por un canal para que el llamador re-renderice. Las operaciones
// con I/O reciben context y se despachan en la goroutine del llamador; no
// hay garantía de orden entre cargas disparadas independientemente.
package state

// publisher entrega el último snapshot sin bloquear jamás al holder.
// Si el consumidor se atrasa se descarta el estado intermedio: para la
// UI solo importa el más reciente.
type publisher[S any] struct {
	ch chan S
}

func newPublisher[S any]() publisher[S] {
	return publisher[S]{ch: make(chan S, 1)}
}

func (p publisher[S]) publish(s S) {
	select {
	case p.ch <- s:
	default:
		select {
		case <-p.ch:
		default:
		}
		select {
		case p.ch <- s:
		default:
		}
	}
}

func (p publisher[S]) updates() <-chan S { return p.ch }
