package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterAll_Idempotent(t *testing.T) {
	RegisterAll()
	RegisterAll() // second call must not panic on duplicate registration

	SearchesTotal.WithLabelValues("results").Inc()
	if got := testutil.ToFloat64(SearchesTotal.WithLabelValues("results")); got < 1 {
		t.Errorf("searches_total = %v, want >= 1", got)
	}
}
