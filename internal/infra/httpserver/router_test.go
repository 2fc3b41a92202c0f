package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/neuroscan/internal/application"
	apphospitals "github.com/bryanwahyu/neuroscan/internal/application/hospitals"
	appreports "github.com/bryanwahyu/neuroscan/internal/application/reports"
	appscans "github.com/bryanwahyu/neuroscan/internal/application/scans"
	domain "github.com/bryanwahyu/neuroscan/internal/domain/scans"
	"github.com/bryanwahyu/neuroscan/internal/infra/db/memory"
	"github.com/bryanwahyu/neuroscan/internal/infra/hospitals"
)

type memBlobStore struct {
	objects map[string][]byte
}

func (m *memBlobStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) (domain.BlobRef, error) {
	m.objects[bucket+"/"+key] = data
	return domain.BlobRef{Bucket: bucket, Key: key}, nil
}

func (m *memBlobStore) SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	return "https://blobs.test/" + bucket + "/" + key, nil
}

func (m *memBlobStore) Fetch(ctx context.Context, ref domain.BlobRef) ([]byte, error) {
	data, ok := m.objects[ref.Bucket+"/"+ref.Key]
	if !ok {
		return nil, errors.New("object missing")
	}
	return data, nil
}

// scriptedModel returns predictions in order.
type scriptedModel struct {
	preds []domain.Prediction
	err   error
	calls int
}

func (s *scriptedModel) Classify(ctx context.Context, image []byte) (domain.Prediction, error) {
	if s.err != nil {
		return domain.Prediction{}, s.err
	}
	i := s.calls
	if i >= len(s.preds) {
		i = len(s.preds) - 1
	}
	s.calls++
	return s.preds[i], nil
}

type okExplainer struct{}

func (okExplainer) Render(ctx context.Context, image []byte) ([]byte, error) {
	return []byte("png"), nil
}

func newTestServer(model domain.Inference) *httptest.Server {
	scanRepo := memory.NewScanRepository()
	stageRepo := memory.NewStageRepository()
	clock := application.SystemClock{}

	scansSvc := &appscans.Service{
		Scans:         scanRepo,
		Stages:        stageRepo,
		Blobs:         &memBlobStore{objects: make(map[string][]byte)},
		Model:         model,
		Explainer:     okExplainer{},
		Clock:         clock,
		ScanBucket:    "mri-scans",
		HeatmapBucket: "gradcam",
		SignedURLTTL:  time.Hour,
	}
	reportsSvc := &appreports.Service{
		Scans:   scanRepo,
		Stages:  stageRepo,
		Reports: memory.NewReportRepository(),
		Clock:   clock,
	}
	hospitalsSvc := apphospitals.NewService(hospitals.NewStaticLocator())

	return httptest.NewServer(NewRouter(scansSvc, reportsSvc, hospitalsSvc, nil))
}

func uploadScan(t *testing.T, ts *httptest.Server) string {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "slice.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("mri-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("patientId", "patient-7"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/v1/scans", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		ScanID string `json:"scanId"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.ScanID)
	return out.ScanID
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestUpload_NoFile(t *testing.T) {
	ts := newTestServer(&scriptedModel{})
	defer ts.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("patientId", "p"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/v1/scans", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDetect_UnknownScan(t *testing.T) {
	ts := newTestServer(&scriptedModel{})
	defer ts.Close()

	resp, _ := postJSON(t, ts.URL+"/v1/scans/nope/detection", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDetect_InferenceDown(t *testing.T) {
	ts := newTestServer(&scriptedModel{err: errors.New("model offline")})
	defer ts.Close()
	id := uploadScan(t, ts)

	resp, _ := postJSON(t, ts.URL+"/v1/scans/"+id+"/detection", "")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestClassify_GateDistinctFromNotFound(t *testing.T) {
	ts := newTestServer(&scriptedModel{preds: []domain.Prediction{{Label: domain.LabelNoTumor, Confidence: 0.9}}})
	defer ts.Close()
	id := uploadScan(t, ts)

	// unknown scan → 404
	resp, _ := postJSON(t, ts.URL+"/v1/scans/nope/classification", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// known scan, gate unmet → 400
	resp, _ = postJSON(t, ts.URL+"/v1/scans/"+id+"/classification", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestScenario_NegativeDetectionBlocksClassification(t *testing.T) {
	ts := newTestServer(&scriptedModel{preds: []domain.Prediction{{Label: domain.LabelNoTumor, Confidence: 0.9}}})
	defer ts.Close()
	id := uploadScan(t, ts)

	resp, det := postJSON(t, ts.URL+"/v1/scans/"+id+"/detection", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, false, det["tumorDetected"])
	require.Equal(t, float64(1), det["stage"])

	resp, _ = postJSON(t, ts.URL+"/v1/scans/"+id+"/classification", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestScenario_FullPipelineAndReport(t *testing.T) {
	ts := newTestServer(&scriptedModel{preds: []domain.Prediction{
		{Label: "glioma", Confidence: 0.92},
		{Label: "glioma", Confidence: 0.92},
	}})
	defer ts.Close()
	id := uploadScan(t, ts)

	resp, det := postJSON(t, ts.URL+"/v1/scans/"+id+"/detection", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, det["tumorDetected"])
	require.Equal(t, 0.92, det["confidence"])

	resp, cls := postJSON(t, ts.URL+"/v1/scans/"+id+"/classification", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Glioma", cls["category"])
	require.Equal(t, "High", cls["severity"])
	require.Equal(t, float64(2), cls["stage"])

	resp, rep := postJSON(t, ts.URL+"/v1/scans/"+id+"/report",
		`{"patientName":"Jane Roe","patientAge":"44","patientGender":"F"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	reportID, ok := rep["reportId"].(string)
	require.True(t, ok)

	report := rep["report"].(map[string]any)
	require.NotNil(t, report["detection"])
	require.NotNil(t, report["classification"])
	require.Nil(t, report["explanation"], "explanation never ran, must be an explicit null")
	missing := report["missing_stages"].([]any)
	require.Equal(t, []any{"explanation"}, missing)

	// snapshot retrievable by id
	getResp, err := http.Get(ts.URL + "/v1/reports/" + reportID)
	require.NoError(t, err)
	getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)
}

func TestExplanation_IndependentStage(t *testing.T) {
	ts := newTestServer(&scriptedModel{})
	defer ts.Close()
	id := uploadScan(t, ts)

	resp, out := postJSON(t, ts.URL+"/v1/scans/"+id+"/explanation", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(3), out["stage"])
	require.NotEmpty(t, out["gradcamUrl"])
}

func TestReport_UnknownScan(t *testing.T) {
	ts := newTestServer(&scriptedModel{})
	defer ts.Close()

	resp, _ := postJSON(t, ts.URL+"/v1/scans/nope/report", `{}`)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetReport_NeverIssued(t *testing.T) {
	ts := newTestServer(&scriptedModel{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/reports/report-never-issued")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNearbyHospitals(t *testing.T) {
	ts := newTestServer(&scriptedModel{})
	defer ts.Close()

	// missing coordinates → 400
	resp, _ := postJSON(t, ts.URL+"/v1/hospitals/nearby", `{}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, out := postJSON(t, ts.URL+"/v1/hospitals/nearby", `{"latitude":52.5,"longitude":13.4}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out["hospitals"], 3)
}
