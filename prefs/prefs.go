// Identidad de sesión persistida entre reinicios del proceso, sobre la
// tabla clave-valor del store local.
package prefs

import (
	"context"
	"database/sql"
	"strconv"
	"sync"

	"github.com/avergara/comicstore/domain"
)

const (
	keyUserID   = "user_id"
	keyNombre   = "nombre"
	keyEmail    = "email"
	keyRut      = "rut"
	keyRol      = "rol"
	keyLoggedIn = "is_logged_in"
)

type UserPreferences struct {
	db *sql.DB

	mu       sync.Mutex
	watchers []chan domain.UserSession
}

func New(db *sql.DB) *UserPreferences {
	return &UserPreferences{db: db}
}

// SaveUser persiste la identidad y marca la sesión como iniciada.
func (p *UserPreferences) SaveUser(ctx context.Context, id int64, nombre, email, rut, rol string) error {
	pairs := map[string]string{
		keyUserID:   strconv.FormatInt(id, 10),
		keyNombre:   nombre,
		keyEmail:    email,
		keyRut:      rut,
		keyRol:      rol,
		keyLoggedIn: "true",
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO prefs(clave, valor) VALUES(?,?)
ON CONFLICT(clave) DO UPDATE SET valor=excluded.valor`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for k, v := range pairs {
		if _, err := stmt.ExecContext(ctx, k, v); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	p.notify(ctx)
	return nil
}

// Session lee la identidad guardada. Sin sesión: LoggedIn=false, sin error.
func (p *UserPreferences) Session(ctx context.Context) (domain.UserSession, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT clave, valor FROM prefs`)
	if err != nil {
		return domain.UserSession{}, err
	}
	defer rows.Close()

	vals := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return domain.UserSession{}, err
		}
		vals[k] = v
	}
	if err := rows.Err(); err != nil {
		return domain.UserSession{}, err
	}

	id, _ := strconv.ParseInt(vals[keyUserID], 10, 64)
	return domain.UserSession{
		ID:       id,
		Nombre:   vals[keyNombre],
		Email:    vals[keyEmail],
		Rut:      vals[keyRut],
		Rol:      vals[keyRol],
		LoggedIn: vals[keyLoggedIn] == "true" && id != 0,
	}, nil
}

// Clear borra toda la sesión (logout).
func (p *UserPreferences) Clear(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM prefs`); err != nil {
		return err
	}
	p.notify(ctx)
	return nil
}

// Watch entrega cada sesión nueva publicada. El canal tiene buffer; si el
// consumidor se atrasa, se descartan estados intermedios (solo importa el
// último).
func (p *UserPreferences) Watch() <-chan domain.UserSession {
	ch := make(chan domain.UserSession, 1)
	p.mu.Lock()
	p.watchers = append(p.watchers, ch)
	p.mu.Unlock()
	return ch
}

func (p *UserPreferences) notify(ctx context.Context) {
	sess, err := p.Session(ctx)
	if err != nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range p.watchers {
		select {
		case ch <- sess:
		default:
			// descarta el estado viejo y deja el nuevo
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- sess:
			default:
			}
		}
	}
}
