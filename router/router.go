package router

import (
	"net/http"

	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/dealqa/dealqa-server/config"
	"github.com/dealqa/dealqa-server/dealapi"
	"github.com/dealqa/dealqa-server/endpoints"
	"github.com/dealqa/dealqa-server/macrorules"
	"github.com/dealqa/dealqa-server/metrics"
)

// Router wires the validation endpoints onto an httprouter.
type Router struct {
	*httprouter.Router
	MetricsEngine *metrics.Metrics
}

// New builds the main router: the macro rule table is loaded once here and
// shared read-only by every request.
func New(cfg *config.Configuration, revision string) (*Router, error) {
	rules, err := macrorules.Load(cfg.MacroRules.File)
	if err != nil {
		return nil, err
	}
	glog.Infof("macro rule table loaded: %d publishers", rules.Publishers())

	client := dealapi.NewClient(&http.Client{Timeout: cfg.DealAPI.Timeout()}, cfg.DealAPI)
	m := metrics.New()

	r := &Router{
		Router:        httprouter.New(),
		MetricsEngine: m,
	}

	r.POST("/validate", endpoints.NewValidateEndpoint(cfg, rules, m))
	r.POST("/validate/export", endpoints.NewValidateExportEndpoint(cfg, rules, m))
	r.POST("/dealcheck", endpoints.NewDealCheckEndpoint(cfg, client, m))
	r.GET("/status", status)
	r.HandlerFunc(http.MethodGet, "/version", endpoints.NewVersionEndpoint(revision))

	return r, nil
}

func status(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusNoContent)
}

// NoCache wraps a handler with response headers disabling client caching.
type NoCache struct {
	Handler http.Handler
}

func (m NoCache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Add("Pragma", "no-cache")
	w.Header().Add("Expires", "0")
	m.Handler.ServeHTTP(w, r)
}

// SupportCORS wraps the router so browser-based upload UIs on other origins
// can call it.
func SupportCORS(handler http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowCredentials: true,
		AllowOriginRequestFunc: func(r *http.Request, origin string) bool {
			return true
		},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
	})
	return c.Handler(handler)
}
