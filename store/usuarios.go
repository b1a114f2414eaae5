package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/avergara/comicstore/domain"
)

// UsuarioLocal es la fila completa, hash incluido. El hash nunca sale de
// este paquete hacia DTOs remotos.
type UsuarioLocal struct {
	domain.Usuario
	PasswordHash string
}

func (s *Store) CreateUsuario(ctx context.Context, u *UsuarioLocal) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `
INSERT INTO usuarios(nombre, rut, email, password_hash, rol) VALUES(?,?,?,?,?)`,
		u.Nombre, u.Rut, u.Email, u.PasswordHash, u.Rol)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return 0, domain.NewError(domain.KindConflict, "email already registered", err)
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetUsuarioByEmail(ctx context.Context, email string) (*UsuarioLocal, error) {
	row := s.DB.QueryRowContext(ctx, `
SELECT id, nombre, rut, email, password_hash, rol FROM usuarios WHERE email=?`, email)
	return scanUsuario(row)
}

func (s *Store) GetUsuario(ctx context.Context, id int64) (*UsuarioLocal, error) {
	row := s.DB.QueryRowContext(ctx, `
SELECT id, nombre, rut, email, password_hash, rol FROM usuarios WHERE id=?`, id)
	return scanUsuario(row)
}

func scanUsuario(row *sql.Row) (*UsuarioLocal, error) {
	u := &UsuarioLocal{}
	err := row.Scan(&u.ID, &u.Nombre, &u.Rut, &u.Email, &u.PasswordHash, &u.Rol)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) ListUsuarios(ctx context.Context) ([]domain.Usuario, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, nombre, rut, email, rol FROM usuarios ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Usuario
	for rows.Next() {
		var u domain.Usuario
		if err := rows.Scan(&u.ID, &u.Nombre, &u.Rut, &u.Email, &u.Rol); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) UpdateEmailPassword(ctx context.Context, id int64, email, passwordHash string) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE usuarios SET email=?, password_hash=? WHERE id=?`, email, passwordHash, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateRol(ctx context.Context, id int64, rol string) error {
	if !domain.RolValido(rol) {
		return domain.NewError(domain.KindValidation, "rol desconocido: "+rol, nil)
	}
	res, err := s.DB.ExecContext(ctx, `UPDATE usuarios SET rol=? WHERE id=?`, rol, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteUsuario(ctx context.Context, id int64) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM usuarios WHERE id=?`, id)
	return err
}

func (s *Store) CountUsuarios(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM usuarios`).Scan(&n)
	return n, err
}
