package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avergara/comicstore/domain"
)

const comicCols = `id, titulo, autor, descripcion, categoria, precio, stock, imagen_url`

func scanComic(row interface{ Scan(...any) error }) (domain.Comic, error) {
	var c domain.Comic
	err := row.Scan(&c.ID, &c.Titulo, &c.Autor, &c.Descripcion, &c.Categoria, &c.Precio, &c.Stock, &c.ImagenURL)
	return c, err
}

func (s *Store) InsertComic(ctx context.Context, c *domain.Comic) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `
INSERT INTO inventario(titulo, autor, descripcion, categoria, precio, stock, imagen_url)
VALUES(?,?,?,?,?,?,?)`,
		c.Titulo, c.Autor, c.Descripcion, c.Categoria, c.Precio, c.Stock, c.ImagenURL)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) UpdateComic(ctx context.Context, c *domain.Comic) error {
	res, err := s.DB.ExecContext(ctx, `
UPDATE inventario SET titulo=?, autor=?, descripcion=?, categoria=?, precio=?, stock=?, imagen_url=?
WHERE id=?`,
		c.Titulo, c.Autor, c.Descripcion, c.Categoria, c.Precio, c.Stock, c.ImagenURL, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteComic(ctx context.Context, id int64) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM inventario WHERE id=?`, id)
	return err
}

func (s *Store) GetComic(ctx context.Context, id int64) (*domain.Comic, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+comicCols+` FROM inventario WHERE id=?`, id)
	c, err := scanComic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListInventario(ctx context.Context) ([]domain.Comic, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+comicCols+` FROM inventario ORDER BY titulo ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Comic
	for rows.Next() {
		c, err := scanComic(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SearchInventario busca por título o categoría (LIKE, sin distinción de caso).
func (s *Store) SearchInventario(ctx context.Context, query string) ([]domain.Comic, error) {
	like := "%" + query + "%"
	rows, err := s.DB.QueryContext(ctx, `
SELECT `+comicCols+` FROM inventario
WHERE titulo LIKE ? COLLATE NOCASE OR categoria LIKE ? COLLATE NOCASE
ORDER BY titulo ASC`, like, like)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Comic
	for rows.Next() {
		c, err := scanComic(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateStock fija el stock absoluto de un producto (uso del vendedor).
func (s *Store) UpdateStock(ctx context.Context, id int64, nuevoStock int) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE inventario SET stock=? WHERE id=?`, nuevoStock, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PurchaseLine es una línea comprada que descuenta stock.
type PurchaseLine struct {
	ComicID  int64
	Cantidad int
}

// ApplyPurchase descuenta el stock de todas las líneas compradas en una
// sola transacción: o se aplican todas o ninguna. El stock nunca queda
// negativo aunque la cantidad comprada exceda el disponible (se recorta
// a cero, no se rechaza). Una línea cuyo producto no existe se ignora.
func (s *Store) ApplyPurchase(ctx context.Context, lines []PurchaseLine) error {
	if len(lines) == 0 {
		return nil
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
UPDATE inventario SET stock = MAX(0, stock - ?) WHERE id=?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, l := range lines {
		if _, err := stmt.ExecContext(ctx, l.Cantidad, l.ComicID); err != nil {
			return err
		}
	}
	return tx.Commit()
}
