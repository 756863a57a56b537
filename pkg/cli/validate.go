package cli

import (
	"context"
	"fmt"

	"github.com/secmon-lab/ethiq/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var catalogCfg config.Catalog

	return &cli.Command{
		Name:  "validate",
		Usage: "Validate a seed catalog file",
		Flags: catalogCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			catalog, err := catalogCfg.Configure(ctx)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(c.Root().Writer, "catalog is valid: %d groups, %d items\n",
				len(catalog.Groups), catalog.ItemCount())
			return err
		},
	}
}
