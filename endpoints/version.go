package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/golang/glog"
)

const versionEndpointValueNotSet = "not-set"

// NewVersionEndpoint returns the commit hash the binary was built from.
func NewVersionEndpoint(revision string) http.HandlerFunc {
	if revision == "" {
		revision = versionEndpointValueNotSet
	}

	response, err := json.Marshal(struct {
		Revision string `json:"revision"`
	}{
		Revision: revision,
	})
	if err != nil {
		glog.Fatalf("error creating /version endpoint response: %v", err)
	}

	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(response)
	}
}
