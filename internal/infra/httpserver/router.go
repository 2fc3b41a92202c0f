package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	apphospitals "github.com/bryanwahyu/neuroscan/internal/application/hospitals"
	appreports "github.com/bryanwahyu/neuroscan/internal/application/reports"
	appscans "github.com/bryanwahyu/neuroscan/internal/application/scans"
	domhospitals "github.com/bryanwahyu/neuroscan/internal/domain/hospitals"
	domreports "github.com/bryanwahyu/neuroscan/internal/domain/reports"
	domain "github.com/bryanwahyu/neuroscan/internal/domain/scans"
	"github.com/bryanwahyu/neuroscan/internal/middleware"
)

// maxUploadBytes caps the multipart memory buffer for scan uploads.
const maxUploadBytes = 32 << 20

type Router struct {
	scansSvc     *appscans.Service
	reportsSvc   *appreports.Service
	hospitalsSvc *apphospitals.Service
}

func NewRouter(scansSvc *appscans.Service, reportsSvc *appreports.Service, hospitalsSvc *apphospitals.Service, health http.Handler) http.Handler {
	r := &Router{scansSvc: scansSvc, reportsSvc: reportsSvc, hospitalsSvc: hospitalsSvc}
	mux := chi.NewRouter()

	mux.Use(middleware.LoggingMiddleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         600,
	}))

	if health != nil {
		mux.Method(http.MethodGet, "/health", health)
	}

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/scans", r.wrap(r.handleUpload))
		rt.Get("/scans/{id}", r.wrap(r.handleGetScan))
		rt.Post("/scans/{id}/detection", r.wrap(r.handleDetect))
		rt.Post("/scans/{id}/classification", r.wrap(r.handleClassify))
		rt.Post("/scans/{id}/explanation", r.wrap(r.handleExplain))
		rt.Post("/scans/{id}/report", r.wrap(r.handleReport))
		rt.Get("/reports/{reportId}", r.wrap(r.handleGetReport))
		rt.Post("/hospitals/nearby", r.wrap(r.handleNearbyHospitals))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap maps the domain error kinds onto their HTTP statuses. The
// PreconditionFailed/NotFound split matters: clients must be able to tell
// "scan doesn't exist" from "scan isn't ready for this stage".
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, err)
		case errors.Is(err, domain.ErrPreconditionFailed), errors.Is(err, domain.ErrBadInput):
			writeError(w, http.StatusBadRequest, err)
		case errors.Is(err, domain.ErrStorageUnavailable), errors.Is(err, domain.ErrInferenceUnavailable):
			writeError(w, http.StatusBadGateway, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// POST /v1/scans, multipart: file + optional patientId.
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		return errBadInput("invalid multipart body")
	}
	file, header, err := req.FormFile("file")
	if err != nil {
		return errBadInput("no file provided")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return errBadInput("read upload")
	}

	scan, err := r.scansSvc.Upload(req.Context(), appscans.UploadScanCommand{
		PatientID:   req.FormValue("patientId"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		return err
	}

	return writeJSON(w, map[string]any{
		"scanId":     scan.ID,
		"blobRef":    scan.Blob,
		"uploadedAt": scan.UploadedAt,
	})
}

// GET /v1/scans/{id}
func (r *Router) handleGetScan(w http.ResponseWriter, req *http.Request) error {
	id := domain.ScanID(chi.URLParam(req, "id"))

	scan, stages, err := r.scansSvc.Get(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{
		"scan":   scan,
		"stages": stages,
	})
}

// POST /v1/scans/{id}/detection
func (r *Router) handleDetect(w http.ResponseWriter, req *http.Request) error {
	id := domain.ScanID(chi.URLParam(req, "id"))

	rec, err := r.scansSvc.RunDetection(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{
		"scanId":        rec.ScanID,
		"tumorDetected": rec.Detection.TumorDetected,
		"confidence":    rec.Detection.Confidence,
		"producedAt":    rec.ProducedAt,
		"stage":         rec.Stage.Number(),
	})
}

// POST /v1/scans/{id}/classification
func (r *Router) handleClassify(w http.ResponseWriter, req *http.Request) error {
	id := domain.ScanID(chi.URLParam(req, "id"))

	rec, err := r.scansSvc.RunClassification(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{
		"scanId":     rec.ScanID,
		"category":   rec.Classification.Category,
		"confidence": rec.Classification.Confidence,
		"severity":   rec.Classification.Severity,
		"producedAt": rec.ProducedAt,
		"stage":      rec.Stage.Number(),
	})
}

// POST /v1/scans/{id}/explanation
func (r *Router) handleExplain(w http.ResponseWriter, req *http.Request) error {
	id := domain.ScanID(chi.URLParam(req, "id"))

	rec, err := r.scansSvc.RunExplanation(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{
		"scanId":     rec.ScanID,
		"visualRef":  rec.Explanation.Visual,
		"gradcamUrl": rec.Explanation.Visual.SignedURL,
		"producedAt": rec.ProducedAt,
		"stage":      rec.Stage.Number(),
	})
}

// POST /v1/scans/{id}/report
// Body: {"patientName": ..., "patientAge": ..., "patientGender": ...}
func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) error {
	id := domain.ScanID(chi.URLParam(req, "id"))

	var body struct {
		PatientName   string `json:"patientName"`
		PatientAge    string `json:"patientAge"`
		PatientGender string `json:"patientGender"`
	}
	if req.Body != nil {
		// An empty body is fine; patient context is optional and opaque.
		_ = json.NewDecoder(req.Body).Decode(&body)
	}

	report, err := r.reportsSvc.Generate(req.Context(), id, domreports.PatientContext{
		Name:   body.PatientName,
		Age:    body.PatientAge,
		Gender: body.PatientGender,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{
		"reportId": report.ID,
		"report":   report,
	})
}

// GET /v1/reports/{reportId}
func (r *Router) handleGetReport(w http.ResponseWriter, req *http.Request) error {
	id := domreports.ReportID(chi.URLParam(req, "reportId"))

	report, err := r.reportsSvc.Get(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, report)
}

// POST /v1/hospitals/nearby
func (r *Router) handleNearbyHospitals(w http.ResponseWriter, req *http.Request) error {
	var body domhospitals.Location
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return errBadInput("invalid body")
	}

	list, err := r.hospitalsSvc.Nearby(req.Context(), body)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{"hospitals": list})
}

func errBadInput(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrBadInput, msg)
}
