// Package comicstore arma la aplicación: store local, preferencias de
// sesión, cliente REST, repositorios y holders, todo construido
// explícitamente e inyectado — sin singletons ambientales.
package comicstore

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/avergara/comicstore/api"
	"github.com/avergara/comicstore/config"
	"github.com/avergara/comicstore/prefs"
	"github.com/avergara/comicstore/repository"
	"github.com/avergara/comicstore/state"
	"github.com/avergara/comicstore/store"
)

type App struct {
	Store *store.Store
	Prefs *prefs.UserPreferences
	API   *api.Client

	Usuarios   *repository.UsuarioRepository
	Comics     *repository.ComicRepository
	Inventario *repository.InventarioRepository
	Pedidos    repository.PedidoRepository
	Admin      *repository.AdminRepository

	Auth    *state.AuthHolder
	Catalog *state.CatalogHolder
	Inv     *state.InventarioHolder
	Cart    *state.CartHolder
	Compras *state.ComprasHolder
	Seller  *state.SellerHolder
}

// New construye la aplicación completa. El carrito usa el repositorio
// remoto de pedidos y reconcilia el stock local tras cada compra.
func New(cfg config.Config) (*App, error) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if cfg.SeedOnStart {
		if err := st.Seed(context.Background()); err != nil {
			st.Close()
			return nil, err
		}
		log.Info().Msg("seeded initial inventory")
	}

	client := api.NewClient(cfg)
	comics, err := repository.NewComicRepository(client)
	if err != nil {
		st.Close()
		return nil, err
	}

	p := prefs.New(st.DB)
	usuarios := repository.NewUsuarioRepository(client)
	inventario := repository.NewInventarioRepository(st)
	pedidos := repository.NewRemotePedidoRepository(client)
	admin := repository.NewAdminRepository(client)

	inv := state.NewInventarioHolder(inventario)

	app := &App{
		Store:      st,
		Prefs:      p,
		API:        client,
		Usuarios:   usuarios,
		Comics:     comics,
		Inventario: inventario,
		Pedidos:    pedidos,
		Admin:      admin,
		Auth:       state.NewAuthHolder(usuarios, p),
		Catalog:    state.NewCatalogHolder(comics),
		Inv:        inv,
		Cart:       state.NewCartHolder(pedidos, inv),
		Compras:    state.NewComprasHolder(pedidos),
		Seller:     state.NewSellerHolder(pedidos),
	}
	log.Info().Str("db", cfg.DBPath).Str("pedidos", cfg.PedidosBaseURL).Msg("comicstore listo")
	return app, nil
}

// AdminFor crea el holder de administración con el rol de la sesión dada.
func (a *App) AdminFor(rol string) *state.AdminHolder {
	return state.NewAdminHolder(a.Admin, rol)
}

// AddComicForm crea un holder de formulario nuevo; uno por pantalla de alta.
func (a *App) AddComicForm() *state.AddComicHolder {
	return state.NewAddComicHolder(a.Comics)
}

func (a *App) Close() error { return a.Store.Close() }
