// Store local embebido: cuatro tablas relacionadas (usuarios, inventario,
// pedidos, detalle) más la tabla clave-valor de sesión.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // driver 100% Go
)

type Store struct {
	DB *sql.DB
}

// Open abre (o crea) la base. Busy timeout + WAL para evitar
// "database is locked"; foreign_keys para que el CASCADE funcione.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := "file:" + dbPath + "?_pragma=busy_timeout=5000&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetConnMaxIdleTime(2 * time.Minute)
	db.SetMaxOpenConns(1)

	s := &Store{DB: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenMemory abre una base en memoria, para pruebas.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	s := &Store{DB: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS usuarios(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  nombre TEXT NOT NULL,
  rut TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  rol TEXT NOT NULL DEFAULT 'usuario'
);
CREATE TABLE IF NOT EXISTS inventario(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  titulo TEXT NOT NULL,
  autor TEXT NOT NULL,
  descripcion TEXT NOT NULL,
  categoria TEXT NOT NULL,
  precio INTEGER NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  imagen_url TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS pedidos(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  usuario_id INTEGER NOT NULL,
  fecha INTEGER NOT NULL,
  estado TEXT NOT NULL,
  total INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS detalle(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  pedido_id INTEGER NOT NULL,
  producto_id INTEGER NOT NULL,
  cantidad INTEGER NOT NULL,
  precio_unidad INTEGER NOT NULL,
  FOREIGN KEY(pedido_id) REFERENCES pedidos(id) ON DELETE CASCADE,
  FOREIGN KEY(producto_id) REFERENCES inventario(id) ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS prefs(
  clave TEXT PRIMARY KEY,
  valor TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pedidos_usuario ON pedidos(usuario_id);
CREATE INDEX IF NOT EXISTS idx_detalle_pedido ON detalle(pedido_id);
CREATE INDEX IF NOT EXISTS idx_detalle_producto ON detalle(producto_id);
`
	_, err := s.DB.ExecContext(ctx, schema)
	return err
}

func (s *Store) Close() error { return s.DB.Close() }

// Seed inicial opcional (para pruebas y demos).
func (s *Store) Seed(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt := `
INSERT INTO inventario(titulo, autor, descripcion, categoria, precio, stock)
SELECT ?,?,?,?,?,?
WHERE NOT EXISTS (SELECT 1 FROM inventario WHERE titulo = ?)`
	inserts := [][]any{
		{"Watchmen", "Alan Moore", "Edición absoluta", "Superhéroes", 25000, 10},
		{"Maus", "Art Spiegelman", "Relato completo", "Histórico", 18000, 5},
		{"Persépolis", "Marjane Satrapi", "Integral", "Autobiográfico", 22000, 1},
	}
	for _, v := range inserts {
		args := append(v, v[0])
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}
