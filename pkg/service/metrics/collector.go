package metrics

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/secmon-lab/ethiq/pkg/domain/interfaces"
	"github.com/secmon-lab/ethiq/pkg/domain/model"
	"github.com/secmon-lab/ethiq/pkg/domain/types"
)

const namespace = "ethiq"

// Collector exports transition counters and per-group aggregates as Prometheus metrics
type Collector struct {
	transitions *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	groupScore  *prometheus.GaugeVec
	openRatio   *prometheus.GaugeVec
	groupItems  *prometheus.GaugeVec

	mu        sync.Mutex
	revisions map[types.GroupID]uint64 // last applied revision per group
}

var _ interfaces.TransitionObserver = (*Collector)(nil)

// New creates a Collector and registers its metrics
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		revisions: make(map[types.GroupID]uint64),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Number of accepted status transitions.",
		}, []string{"kind", "from", "to"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transition_rejections_total",
			Help:      "Number of rejected status transitions by reason.",
		}, []string{"reason"}),
		groupScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "group_score",
			Help:      "Compliance score (0-100) of a group.",
		}, []string{"group"}),
		openRatio: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "group_open_ratio",
			Help:      "Share of items of a group that are not in a closed state.",
		}, []string{"group"}),
		groupItems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "group_items",
			Help:      "Number of items of a group per status.",
		}, []string{"group", "status"}),
	}

	for _, collector := range []prometheus.Collector{c.transitions, c.rejections, c.groupScore, c.openRatio, c.groupItems} {
		if err := reg.Register(collector); err != nil {
			return nil, goerr.Wrap(err, "failed to register metrics collector")
		}
	}

	return c, nil
}

// ObserveTransition counts an accepted transition
func (c *Collector) ObserveTransition(kind types.Kind, from, to types.Status) {
	c.transitions.WithLabelValues(kind.String(), from.String(), to.String()).Inc()
}

// ObserveRejection counts a rejected transition
func (c *Collector) ObserveRejection(reason string) {
	c.rejections.WithLabelValues(reason).Inc()
}

// Refresh sets the group gauges from a full set of aggregates
func (c *Collector) Refresh(aggs []model.Aggregate) {
	for _, agg := range aggs {
		c.setAggregate(agg)
	}
}

// HandleChange updates the gauges of the changed group. It is meant to be
// registered as a Registry subscriber. Changes older than the last applied one
// are ignored.
func (c *Collector) HandleChange(_ context.Context, change model.GroupChange) {
	c.setAggregate(change.After)
}

func (c *Collector) setAggregate(agg model.Aggregate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if last, ok := c.revisions[agg.GroupID]; ok && agg.Revision < last {
		return
	}
	c.revisions[agg.GroupID] = agg.Revision

	group := agg.GroupID.String()
	if agg.Score != nil {
		c.groupScore.WithLabelValues(group).Set(float64(*agg.Score))
	}
	if agg.OpenRatio != nil {
		c.openRatio.WithLabelValues(group).Set(*agg.OpenRatio)
	}
	for status, n := range agg.Counts {
		c.groupItems.WithLabelValues(group, status.String()).Set(float64(n))
	}
}
