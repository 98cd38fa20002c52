package endpoints

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"

	"github.com/dealqa/dealqa-server/adtags"
	"github.com/dealqa/dealqa-server/config"
	"github.com/dealqa/dealqa-server/errortypes"
	"github.com/dealqa/dealqa-server/export"
	"github.com/dealqa/dealqa-server/macrorules"
	"github.com/dealqa/dealqa-server/mediaplan"
	"github.com/dealqa/dealqa-server/metrics"
	"github.com/dealqa/dealqa-server/validation"
)

type validateResponse struct {
	Results []validation.Result `json:"results"`
	Report  *validation.Report  `json:"report"`
}

// NewValidateEndpoint handles one tag-validation run: a multipart upload with
// a "plan" workbook and one or more "tags" text files, answered with the full
// per-tag results and the aggregated report.
func NewValidateEndpoint(cfg *config.Configuration, rules *macrorules.Table, m *metrics.Metrics) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		results, report, err := runValidation(r, cfg, rules, m)
		if err != nil {
			writeError(w, "/validate", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(validateResponse{Results: results, Report: report}); err != nil {
			glog.Errorf("/validate failed to write response: %v", err)
		}
	}
}

// NewValidateExportEndpoint runs the same validation but answers with the
// two-sheet workbook report.
func NewValidateExportEndpoint(cfg *config.Configuration, rules *macrorules.Table, m *metrics.Metrics) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		results, report, err := runValidation(r, cfg, rules, m)
		if err != nil {
			writeError(w, "/validate/export", err)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="validation_report.xlsx"`)
		if err := export.Write(w, results, report); err != nil {
			glog.Errorf("/validate/export failed to write workbook: %v", err)
		}
	}
}

func runValidation(r *http.Request, cfg *config.Configuration, rules *macrorules.Table, m *metrics.Metrics) ([]validation.Result, *validation.Report, error) {
	if err := r.ParseMultipartForm(cfg.MaxUploadSize); err != nil {
		return nil, nil, &errortypes.BadInput{Message: fmt.Sprintf("unable to parse multipart upload: %v", err)}
	}

	plan, err := parsePlanPart(r)
	if err != nil {
		return nil, nil, err
	}
	for _, dup := range plan.Duplicates {
		glog.Warningf("media plan lists deal %q more than once; keeping the last row", dup)
	}

	tagFiles := r.MultipartForm.File["tags"]
	if len(tagFiles) == 0 {
		return nil, nil, &errortypes.BadInput{Message: "at least one \"tags\" file part is required"}
	}

	var entries []adtags.Entry
	for _, header := range tagFiles {
		content, err := readPart(header)
		if err != nil {
			return nil, nil, &errortypes.BadInput{Message: fmt.Sprintf("unable to read tag file %q: %v", header.Filename, err)}
		}
		entries = append(entries, adtags.Parse(header.Filename, string(content))...)
	}

	validator := validation.NewValidator(rules)
	results := make([]validation.Result, 0, len(entries))
	for _, entry := range entries {
		results = append(results, validator.Validate(entry, plan))
	}
	results = validation.FlagDuplicates(results)
	report := validation.Aggregate(plan, results)

	m.RecordValidationRequest()
	for _, res := range results {
		m.RecordTagValidated(string(res.Status()))
	}
	for _, group := range report.Deals {
		m.RecordDealAggregated(string(group.Status))
	}

	glog.Infof("validated %d tags against %d deals: %d passed, %d warned, %d failed",
		len(results), report.Summary.TotalDeals,
		report.Summary.Passed, report.Summary.Warned, report.Summary.Failed)
	return results, report, nil
}

func parsePlanPart(r *http.Request) (*mediaplan.Plan, error) {
	headers := r.MultipartForm.File["plan"]
	if len(headers) != 1 {
		return nil, &errortypes.BadInput{Message: "exactly one \"plan\" workbook part is required"}
	}
	file, err := headers[0].Open()
	if err != nil {
		return nil, &errortypes.BadInput{Message: fmt.Sprintf("unable to open plan upload: %v", err)}
	}
	defer file.Close()
	return mediaplan.Parse(file)
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// writeError maps structural errors onto HTTP statuses. Per-item validation
// outcomes never arrive here; they are data in the response.
func writeError(w http.ResponseWriter, endpoint string, err error) {
	status := http.StatusInternalServerError
	switch errortypes.ReadCode(err) {
	case errortypes.BadInputErrorCode, errortypes.HeaderNotFoundErrorCode:
		status = http.StatusBadRequest
	case errortypes.BadServerResponseErrorCode:
		status = http.StatusBadGateway
	}
	glog.Errorf("%s: %v", endpoint, err)
	http.Error(w, err.Error(), status)
}
