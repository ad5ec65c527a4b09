package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mrlokans/booknet/internal/backend"
	"github.com/mrlokans/booknet/internal/config"
	"github.com/mrlokans/booknet/internal/entities"
	"github.com/mrlokans/booknet/internal/services"
)

const commandTimeout = 2 * time.Minute

// backendFlags are shared by every command that talks to the REST backend.
type backendFlags struct {
	BackendURL string
	Username   string
	Password   string
}

func (b *backendFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&b.BackendURL, "backend", envOr("BACKEND_URL", config.DefaultBackendURL), "Base URL of the BookNet REST backend")
	fs.StringVar(&b.Username, "username", os.Getenv("BOOKNET_USERNAME"), "Backend username (env BOOKNET_USERNAME)")
	fs.StringVar(&b.Password, "password", "", "Backend password (env BOOKNET_PASSWORD)")
}

// connect builds the services and, when a username is set, logs in and
// returns a context carrying the bearer token.
func (b *backendFlags) connect(ctx context.Context) (context.Context, *services.Registry, error) {
	api, err := backend.NewClient(backend.Config{BaseURL: b.BackendURL})
	if err != nil {
		return nil, nil, err
	}
	registry := services.NewRegistry(api, services.Options{})

	if b.Username == "" {
		return ctx, registry, nil
	}

	password := b.Password
	if password == "" {
		password = os.Getenv("BOOKNET_PASSWORD")
	}
	login, err := registry.Auth.Login(ctx, entities.Credentials{Username: b.Username, Password: password})
	if err != nil {
		return nil, nil, fmt.Errorf("login failed: %w", err)
	}
	return backend.WithToken(ctx, login.Token), registry, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
