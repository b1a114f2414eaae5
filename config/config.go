package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Base URLs de los microservicios remotos
	UsuariosBaseURL string
	ComicsBaseURL   string
	PedidosBaseURL  string

	DBPath      string
	HTTPTimeout time.Duration
	SeedOnStart bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load lee la configuración del entorno. Un archivo .env es opcional;
// si no existe simplemente se ignora.
func Load() Config {
	_ = godotenv.Load()

	timeout := 5 * time.Second
	if v := getenv("COMICSTORE_HTTP_TIMEOUT", ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			timeout = d
		}
	}

	return Config{
		UsuariosBaseURL: getenv("COMICSTORE_USUARIOS_URL", "http://10.0.2.2:8081"),
		ComicsBaseURL:   getenv("COMICSTORE_COMICS_URL", "http://10.0.2.2:8082"),
		PedidosBaseURL:  getenv("COMICSTORE_PEDIDOS_URL", "http://10.0.2.2:8083"),
		DBPath:          getenv("COMICSTORE_DB_PATH", "./data/comicstore.db"),
		HTTPTimeout:     timeout,
		SeedOnStart:     getenv("COMICSTORE_SEED", "false") == "true",
	}
}
