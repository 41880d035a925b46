package metrics

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/arduino.go/pkg/arduino"
)

func TestResult(t *testing.T) {
	assert.Equal(t, ResultOK, Result(nil))
	assert.Equal(t, ResultTimeout, Result(fmt.Errorf("read: %w", arduino.ErrTimeout)))
	assert.Equal(t, ResultError, Result(errors.New("boom")))
}

func TestExchanges(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := NewExchanges(reg)
	e.ObserveExchange("e", time.Millisecond, nil)
	e.ObserveExchange("e", time.Millisecond, nil)
	e.ObserveExchange("m 1 1", 0, arduino.ErrTimeout)

	assert.Equal(t, 2.0, testutil.ToFloat64(e.total.WithLabelValues("e", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.total.WithLabelValues("m", ResultTimeout)))
	assert.Equal(t, 1, testutil.CollectAndCount(e.duration))
}

func TestServerHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewExchanges(reg).ObserveExchange("b", time.Millisecond, nil)
	s := &Server{Gatherer: reg}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `arduino_exchange_total{result="ok",verb="b"} 1`))
}
