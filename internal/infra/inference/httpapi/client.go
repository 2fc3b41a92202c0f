package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	domain "github.com/bryanwahyu/neuroscan/internal/domain/scans"
)

// Client talks to the external model server: POST /predict with the image
// as multipart "file", JSON verdict back. The server runs the two-stage
// model (binary presence, then type); this client just relays its answer.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

// predictResponse mirrors the model server's body.
type predictResponse struct {
	TumorDetected bool    `json:"tumorDetected"`
	TumorType     string  `json:"tumorType"`
	Confidence    float64 `json:"confidence"`
}

func (c *Client) Classify(ctx context.Context, image []byte) (domain.Prediction, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "scan")
	if err != nil {
		return domain.Prediction{}, err
	}
	if _, err := fw.Write(image); err != nil {
		return domain.Prediction{}, err
	}
	if err := mw.Close(); err != nil {
		return domain.Prediction{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/predict", &body)
	if err != nil {
		return domain.Prediction{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return domain.Prediction{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Prediction{}, fmt.Errorf("model server returned %s", resp.Status)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Prediction{}, fmt.Errorf("decode model response: %w", err)
	}

	label := out.TumorType
	if !out.TumorDetected {
		label = domain.LabelNoTumor
	}
	return domain.Prediction{Label: normalize(label), Confidence: out.Confidence}, nil
}

// normalize maps the server's display labels ("No Tumor", "Glioma") onto
// the lowercase label vocabulary.
func normalize(label string) string {
	switch label {
	case "No Tumor", "no tumor", "":
		return domain.LabelNoTumor
	case "Glioma":
		return "glioma"
	case "Meningioma":
		return "meningioma"
	case "Pituitary":
		return "pituitary"
	case "Astrocytoma":
		return "astrocytoma"
	}
	return label
}
