package cli

import (
	"context"

	"github.com/secmon-lab/ethiq/pkg/cli/config"
	"github.com/secmon-lab/ethiq/pkg/domain/model"
	"github.com/secmon-lab/ethiq/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

func cmdScore() *cli.Command {
	var (
		catalogCfg config.Catalog
		group      string
		output     string
	)

	flags := joinFlags(
		catalogCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "group",
				Aliases:     []string{"g"},
				Usage:       "Group ID (all groups if not set)",
				Destination: &group,
			},
			outputFlag(&output),
		},
	)

	return &cli.Command{
		Name:  "score",
		Usage: "Show derived aggregates per group",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			registry, err := openRegistry(ctx, &catalogCfg)
			if err != nil {
				return err
			}

			var aggs []model.Aggregate
			if group == "" {
				aggs, err = registry.Overview(ctx)
				if err != nil {
					return err
				}
			} else {
				agg, err := registry.Score(ctx, types.GroupID(group))
				if err != nil {
					return err
				}
				aggs = []model.Aggregate{*agg}
			}

			return renderAggregates(c.Root().Writer, aggs, output)
		},
	}
}
