package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_CountsByLabel(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.ObserveCentral("list_reviews", "ok", 10*time.Millisecond)
	c.ObserveCentral("list_reviews", "ok", 20*time.Millisecond)
	c.ObserveCentral("list_cctv_events", "http_error", time.Millisecond)
	c.SourceDegraded("cctv")
	c.AlertMutation("mark_read", nil)
	c.AlertMutation("mark_read", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.centralRequests.WithLabelValues("list_reviews", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.centralRequests.WithLabelValues("list_cctv_events", "http_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.sourceDegraded.WithLabelValues("cctv")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.alertMutations.WithLabelValues("mark_read", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.alertMutations.WithLabelValues("mark_read", "error")))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveCentral("x", "ok", time.Second)
		c.SourceDegraded("cctv")
		c.AlertMutation("x", nil)
	})
}
