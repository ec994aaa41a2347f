package metrics_test

import (
	"testing"
	"time"

	"github.com/kylycht/apex/metrics"
	"github.com/kylycht/apex/model"
	"github.com/kylycht/apex/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveFetch(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.ObserveFetch(model.FetchStatus{Phase: model.Ready}, 0, 10*time.Millisecond)
	m.ObserveFetch(model.FetchStatus{Phase: model.Failed, Reason: "x"}, service.KindNetwork, time.Second)
	m.ObserveFetch(model.FetchStatus{Phase: model.Failed, Reason: "y"}, service.KindInvalidResponse, time.Second)
	m.ObserveFetch(model.FetchStatus{Phase: model.Failed, Reason: "z"}, service.KindNetwork, time.Second)

	assert.InDelta(t, 1, testutil.ToFloat64(m.FetchesTotal.WithLabelValues("ready")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.FetchesTotal.WithLabelValues("network")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.FetchesTotal.WithLabelValues("invalid_response")), 0)
}

func TestSetMounted(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.SetMounted(3)
	assert.InDelta(t, 3, testutil.ToFloat64(m.MountedWidgets), 0)
}
