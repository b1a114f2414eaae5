package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avergara/comicstore/domain"
)

// CreatePedido inserta el pedido y sus líneas en una transacción.
// Devuelve el id asignado.
func (s *Store) CreatePedido(ctx context.Context, p *domain.Pedido) (int64, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if p.Fecha.IsZero() {
		p.Fecha = time.Now().UTC()
	}
	res, err := tx.ExecContext(ctx, `
INSERT INTO pedidos(usuario_id, fecha, estado, total) VALUES(?,?,?,?)`,
		p.UsuarioID, p.Fecha.Unix(), string(p.Estado), p.Total)
	if err != nil {
		return 0, err
	}
	pid, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO detalle(pedido_id, producto_id, cantidad, precio_unidad) VALUES(?,?,?,?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, it := range p.Items {
		if _, err := stmt.ExecContext(ctx, pid, it.ComicID, it.Cantidad, it.PrecioUnidad); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return pid, nil
}

func (s *Store) GetPedido(ctx context.Context, id int64) (*domain.Pedido, error) {
	row := s.DB.QueryRowContext(ctx, `
SELECT id, usuario_id, fecha, estado, total FROM pedidos WHERE id=?`, id)
	p, err := scanPedido(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	items, err := s.listDetalle(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Items = items
	return &p, nil
}

func (s *Store) ListPedidos(ctx context.Context) ([]domain.Pedido, error) {
	return s.listPedidos(ctx, `SELECT id, usuario_id, fecha, estado, total FROM pedidos ORDER BY fecha DESC`)
}

func (s *Store) ListPedidosByUsuario(ctx context.Context, usuarioID int64) ([]domain.Pedido, error) {
	return s.listPedidos(ctx,
		`SELECT id, usuario_id, fecha, estado, total FROM pedidos WHERE usuario_id=? ORDER BY fecha DESC`,
		usuarioID)
}

func (s *Store) listPedidos(ctx context.Context, q string, args ...any) ([]domain.Pedido, error) {
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Pedido
	for rows.Next() {
		p, err := scanPedido(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		items, err := s.listDetalle(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func scanPedido(row interface{ Scan(...any) error }) (domain.Pedido, error) {
	var p domain.Pedido
	var fecha int64
	var estado string
	if err := row.Scan(&p.ID, &p.UsuarioID, &fecha, &estado, &p.Total); err != nil {
		return p, err
	}
	p.Fecha = time.Unix(fecha, 0).UTC()
	p.Estado = domain.EstadoPedido(estado)
	return p, nil
}

func (s *Store) listDetalle(ctx context.Context, pedidoID int64) ([]domain.DetallePedido, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, pedido_id, producto_id, cantidad, precio_unidad FROM detalle WHERE pedido_id=?`, pedidoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DetallePedido
	for rows.Next() {
		var d domain.DetallePedido
		if err := rows.Scan(&d.ID, &d.PedidoID, &d.ComicID, &d.Cantidad, &d.PrecioUnidad); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) UpdateEstadoPedido(ctx context.Context, id int64, estado domain.EstadoPedido) error {
	if !estado.Valido() {
		return domain.NewError(domain.KindValidation, "estado de pedido desconocido: "+string(estado), nil)
	}
	res, err := s.DB.ExecContext(ctx, `UPDATE pedidos SET estado=? WHERE id=?`, string(estado), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CancelPedido marca el pedido como cancelado y devuelve el stock de cada
// línea al inventario, todo en una transacción. Cancelar un pedido ya
// cancelado es un no-op (no devuelve stock dos veces).
func (s *Store) CancelPedido(ctx context.Context, id int64) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var estado string
	err = tx.QueryRowContext(ctx, `SELECT estado FROM pedidos WHERE id=?`, id).Scan(&estado)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if domain.EstadoPedido(estado) == domain.EstadoCancelado {
		return nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE pedidos SET estado=? WHERE id=?`, string(domain.EstadoCancelado), id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
UPDATE inventario SET stock = stock + (
  SELECT cantidad FROM detalle WHERE detalle.producto_id = inventario.id AND detalle.pedido_id = ?
)
WHERE id IN (SELECT producto_id FROM detalle WHERE pedido_id = ?)`, id, id); err != nil {
		return err
	}
	return tx.Commit()
}

// DeletePedido borra el pedido; las líneas caen por CASCADE.
func (s *Store) DeletePedido(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM pedidos WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
