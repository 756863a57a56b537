package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/ethiq/pkg/domain/model"
	"github.com/secmon-lab/ethiq/pkg/seed"
	"github.com/urfave/cli/v3"
)

// Catalog holds the seed catalog configuration
type Catalog struct {
	Path string
}

// Flags returns CLI flags for Catalog configuration
func (c *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Aliases:     []string{"c"},
			Usage:       "Path to the YAML seed catalog (embedded default catalog if not set)",
			Category:    "Catalog",
			Sources:     cli.EnvVars("ETHIQ_CATALOG"),
			Destination: &c.Path,
		},
	}
}

// Configure loads the catalog from the configured file or the embedded default
func (c *Catalog) Configure(ctx context.Context) (*model.Catalog, error) {
	if c.Path == "" {
		ctxlog.From(ctx).Info("Using embedded default catalog")
		return seed.Default()
	}

	catalog, err := seed.LoadFile(c.Path)
	if err != nil {
		return nil, err
	}
	ctxlog.From(ctx).Info("Catalog file loaded", "path", c.Path)
	return catalog, nil
}

// LogValue returns structured log value
func (c Catalog) LogValue() slog.Value {
	path := c.Path
	if path == "" {
		path = "(embedded)"
	}
	return slog.GroupValue(slog.String("path", path))
}
