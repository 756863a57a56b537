package cli

import (
	"context"

	"github.com/secmon-lab/ethiq/pkg/cli/config"
	"github.com/secmon-lab/ethiq/pkg/domain/model"
	"github.com/secmon-lab/ethiq/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

func cmdQuery() *cli.Command {
	var (
		catalogCfg config.Catalog
		spec       model.FilterSpec
		kind       string
		group      string
		output     string
	)

	flags := joinFlags(
		catalogCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "search",
				Aliases:     []string{"s"},
				Usage:       "Case-insensitive text matched against ID, name and description",
				Category:    "Filter",
				Destination: &spec.Search,
			},
			&cli.StringFlag{
				Name:        "category",
				Usage:       "Exact category (all for no filter)",
				Category:    "Filter",
				Destination: &spec.Category,
			},
			&cli.StringFlag{
				Name:        "status",
				Usage:       "Exact status (all for no filter)",
				Category:    "Filter",
				Destination: &spec.Status,
			},
			&cli.StringFlag{
				Name:        "grade",
				Usage:       "Exact grade: low, medium, high, critical (all for no filter)",
				Category:    "Filter",
				Destination: &spec.Grade,
			},
			&cli.StringFlag{
				Name:        "kind",
				Usage:       "Item kind: compliance, mitigation, risk, assessment",
				Category:    "Filter",
				Destination: &kind,
			},
			&cli.StringFlag{
				Name:        "group",
				Aliases:     []string{"g"},
				Usage:       "Restrict to one group ID",
				Category:    "Filter",
				Destination: &group,
			},
			outputFlag(&output),
		},
	)

	return &cli.Command{
		Name:  "query",
		Usage: "List items matching a filter",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			registry, err := openRegistry(ctx, &catalogCfg)
			if err != nil {
				return err
			}

			spec.Kind = types.Kind(kind)
			if group != "" {
				id := types.GroupID(group)
				spec.GroupID = &id
			}

			items, err := registry.Query(ctx, spec)
			if err != nil {
				return err
			}
			return renderItems(c.Root().Writer, items, output)
		},
	}
}
