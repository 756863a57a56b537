package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ethiq/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func outputFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "output",
		Aliases:     []string{"o"},
		Usage:       "Output format (table, json)",
		Value:       outputTable,
		Destination: dst,
	}
}

func validateOutput(format string) error {
	if format != outputTable && format != outputJSON {
		return goerr.New("invalid output format", goerr.V("output", format))
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to encode output")
	}
	return nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func renderItems(w io.Writer, items []*model.GradedItem, format string) error {
	if format == outputJSON {
		if items == nil {
			items = []*model.GradedItem{}
		}
		return writeJSON(w, items)
	}

	t := newTable("ID", "KIND", "NAME", "CATEGORY", "STATUS", "GRADE")
	for _, item := range items {
		t.Row(item.ID.String(), item.Kind.String(), item.Name, item.Category, item.Status.String(), string(item.Grade))
	}
	_, err := fmt.Fprintf(w, "%s\n%d items\n", t.Render(), len(items))
	return err
}

func renderAggregates(w io.Writer, aggs []model.Aggregate, format string) error {
	if format == outputJSON {
		return writeJSON(w, aggs)
	}

	t := newTable("GROUP", "KIND", "ITEMS", "SCORE", "OPEN", "IMPLEMENTATION")
	for _, agg := range aggs {
		t.Row(agg.GroupID.String(), agg.Kind.String(), strconv.Itoa(agg.Total),
			formatIntPtr(agg.Score, "%d"), formatRatio(agg.OpenRatio), formatIntPtr(agg.AverageImplementation, "%d%%"))
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func formatIntPtr(v *int, layout string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(layout, *v)
}

func formatRatio(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", 100*(*v))
}
