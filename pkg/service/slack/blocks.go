package slack

import (
	"fmt"
	"math"
	"strings"

	"github.com/secmon-lab/ethiq/pkg/domain/model"
	"github.com/slack-go/slack"
)

// GetHealthEmoji returns an emoji for a 0-100 health value
func GetHealthEmoji(value int) string {
	switch {
	case value >= 80:
		return "✅"
	case value >= 50:
		return "⚠️"
	default:
		return "🚨"
	}
}

// healthOf maps an aggregate to a 0-100 value: the compliance score, or the
// closed share for kinds tracked by open ratio
func healthOf(agg model.Aggregate) int {
	switch {
	case agg.Score != nil:
		return *agg.Score
	case agg.OpenRatio != nil:
		return int(math.Round(100 * (1 - *agg.OpenRatio)))
	default:
		return 100
	}
}

// FormatHeadline formats the headline value of an aggregate
func FormatHeadline(agg model.Aggregate) string {
	switch {
	case agg.Score != nil:
		return fmt.Sprintf("%d%%", *agg.Score)
	case agg.OpenRatio != nil:
		return fmt.Sprintf("%.0f%% open", 100*(*agg.OpenRatio))
	default:
		return "-"
	}
}

func formatCounts(agg model.Aggregate) string {
	lc := model.LifecycleOf(agg.Kind)
	if lc == nil {
		return ""
	}
	parts := make([]string, 0, len(lc.States))
	for _, s := range lc.States {
		parts = append(parts, fmt.Sprintf("%s: %d", s, agg.Counts[s]))
	}
	return strings.Join(parts, " | ")
}

// BuildChangeBlocks builds the message blocks announcing a status change and
// the resulting aggregate of its group
func BuildChangeBlocks(change model.GroupChange) []slack.Block {
	after := change.After
	name := after.GroupName
	if name == "" {
		name = after.GroupID.String()
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType,
				fmt.Sprintf("%s %s updated", GetHealthEmoji(healthOf(after)), name), true, false),
		),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*%s* moved from `%s` to `%s`", change.ItemID, change.From, change.To), false, false),
			[]*slack.TextBlockObject{
				slack.NewTextBlockObject(slack.MarkdownType,
					fmt.Sprintf("*Before:*\n%s", FormatHeadline(change.Before)), false, false),
				slack.NewTextBlockObject(slack.MarkdownType,
					fmt.Sprintf("*After:*\n%s", FormatHeadline(after)), false, false),
			},
			nil,
		),
	}

	if counts := formatCounts(after); counts != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("%d items | %s", after.Total, counts), false, false),
		))
	}

	return blocks
}

// buildChangeText is the notification fallback text
func buildChangeText(change model.GroupChange) string {
	return fmt.Sprintf("%s: %s %s -> %s (%s)",
		change.After.GroupID, change.ItemID, change.From, change.To, FormatHeadline(change.After))
}
