package cli

import (
	"context"

	"github.com/secmon-lab/ethiq/pkg/cli/config"
	"github.com/secmon-lab/ethiq/pkg/repository"
	"github.com/secmon-lab/ethiq/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// joinFlags combines multiple flag slices into one
func joinFlags(flags ...[]cli.Flag) []cli.Flag {
	var result []cli.Flag
	for _, f := range flags {
		result = append(result, f...)
	}
	return result
}

// openRegistry loads the configured catalog into a fresh in-memory registry
func openRegistry(ctx context.Context, catalogCfg *config.Catalog) (*usecase.Registry, error) {
	catalog, err := catalogCfg.Configure(ctx)
	if err != nil {
		return nil, err
	}

	registry := usecase.NewRegistry(repository.NewMemory())
	if err := registry.Load(ctx, catalog); err != nil {
		return nil, err
	}
	return registry, nil
}
