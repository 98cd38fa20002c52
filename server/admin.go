package server

import (
	"net/http"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dealqa/dealqa-server/endpoints"
	"github.com/dealqa/dealqa-server/metrics"
)

// Admin builds the admin-port handler: prometheus metrics plus the build
// revision.
func Admin(revision string, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{
		ErrorLog:            loggerForPrometheus{},
		MaxRequestsInFlight: 5,
	}))
	mux.Handle("/version", endpoints.NewVersionEndpoint(revision))
	return mux
}

type loggerForPrometheus struct{}

func (loggerForPrometheus) Println(v ...interface{}) {
	glog.Warningln(v...)
}
