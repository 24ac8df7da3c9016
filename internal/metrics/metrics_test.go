package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserve(t *testing.T) {
	total := OperationsTotal.WithLabelValues(OpScoreContent)
	failed := OperationErrors.WithLabelValues(OpScoreContent)
	beforeTotal, beforeFailed := testutil.ToFloat64(total), testutil.ToFloat64(failed)

	Observe(OpScoreContent, time.Now(), nil)
	Observe(OpScoreContent, time.Now(), errors.New("boom"))

	assert.Equal(t, beforeTotal+2, testutil.ToFloat64(total))
	assert.Equal(t, beforeFailed+1, testutil.ToFloat64(failed))
}

func TestCollectorsRegistered(t *testing.T) {
	OverallScore.Observe(0.85)
	CacheLookups.WithLabelValues("hit").Inc()

	assert.Positive(t, testutil.CollectAndCount(OperationDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(OverallScore))
}
