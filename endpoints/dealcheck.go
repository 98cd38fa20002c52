package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"

	"github.com/dealqa/dealqa-server/config"
	"github.com/dealqa/dealqa-server/dealapi"
	"github.com/dealqa/dealqa-server/errortypes"
	"github.com/dealqa/dealqa-server/metrics"
)

type dealCheckSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

type dealCheckResponse struct {
	Rows    []dealapi.RowResult `json:"rows"`
	Summary dealCheckSummary    `json:"summary"`
}

// NewDealCheckEndpoint handles one deal-check run: a multipart upload with a
// "plan" workbook carrying a Deal Meta ID column, authorized by the caller's
// bearer token which is passed through to the remote deal API. Rows are
// fetched and compared one at a time.
func NewDealCheckEndpoint(cfg *config.Configuration, client *dealapi.Client, m *metrics.Metrics) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		authToken := r.Header.Get("Authorization")
		if authToken == "" {
			http.Error(w, "Authorization header with the deal API bearer token is required", http.StatusUnauthorized)
			return
		}

		if err := r.ParseMultipartForm(cfg.MaxUploadSize); err != nil {
			writeError(w, "/dealcheck", &errortypes.BadInput{Message: fmt.Sprintf("unable to parse multipart upload: %v", err)})
			return
		}

		headers := r.MultipartForm.File["plan"]
		if len(headers) != 1 {
			writeError(w, "/dealcheck", &errortypes.BadInput{Message: "exactly one \"plan\" workbook part is required"})
			return
		}
		file, err := headers[0].Open()
		if err != nil {
			writeError(w, "/dealcheck", &errortypes.BadInput{Message: fmt.Sprintf("unable to open plan upload: %v", err)})
			return
		}
		deals, err := dealapi.ParseSheet(file)
		file.Close()
		if err != nil {
			writeError(w, "/dealcheck", err)
			return
		}

		runner := dealapi.NewRunner(client)
		start := time.Now()
		rows := runner.Run(r.Context(), deals, authToken)
		m.RecordDealCheckTime(time.Since(start))

		response := dealCheckResponse{Rows: rows}
		response.Summary.Total = len(rows)
		for _, row := range rows {
			m.RecordDealCheckRow(string(row.Status))
			switch row.Status {
			case dealapi.RowPass:
				response.Summary.Passed++
			case dealapi.RowFail:
				response.Summary.Failed++
			case dealapi.RowSkipped:
				response.Summary.Skipped++
			case dealapi.RowError:
				response.Summary.Errors++
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			glog.Errorf("/dealcheck failed to write response: %v", err)
		}
	}
}
