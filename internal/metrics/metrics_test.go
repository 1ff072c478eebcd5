package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dekarrin/tunacmd/internal/command"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func Test_Dispatch_ObserveDispatch(t *testing.T) {
	assert := assert.New(t)

	m := NewDispatch(nil)

	m.ObserveDispatch("say", command.OutcomeSuccess, time.Millisecond)
	m.ObserveDispatch("say", command.OutcomeSuccess, time.Millisecond)
	m.ObserveDispatch("say", command.OutcomeSyntax, time.Millisecond)
	m.ObserveDispatch("", command.OutcomeUnknown, time.Millisecond)

	assert.Equal(2.0, testutil.ToFloat64(m.total.WithLabelValues("say", "success")))
	assert.Equal(1.0, testutil.ToFloat64(m.total.WithLabelValues("say", "syntax")))
	assert.Equal(1.0, testutil.ToFloat64(m.total.WithLabelValues("", "unknown")))
	assert.Equal(3, testutil.CollectAndCount(m.duration))
}

func Test_Dispatch_Handler(t *testing.T) {
	assert := assert.New(t)

	m := NewDispatch(nil)
	m.ObserveDispatch("list", command.OutcomeSuccess, 2*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	assert.Equal(200, rec.Code)
	assert.Contains(string(body), `tunacmd_dispatch_total{keyword="list",outcome="success"} 1`)
	assert.Contains(string(body), "tunacmd_dispatch_duration_seconds_bucket")
}
