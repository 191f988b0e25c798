package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/common"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
)

// Multipart field names expected by the classification endpoint.
const (
	FieldPatientID   = "id_paciente"
	FieldPhysicianID = "id_medico"
	FieldImage       = "image"
	ImageFileName    = "imagen_seleccionada.jpg"
	ImageContentType = "image/jpg"
)

const classifyPath = "/resultados/add"

// RejectionError is returned when the classification endpoint answers with a
// non-2xx status, meaning the image is not a lung radiograph.
type RejectionError struct {
	Body       string
	StatusCode int
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("classification rejected with status %d", e.StatusCode)
}

func (e *RejectionError) Unwrap() error {
	return common.ErrRemoteRejection
}

// classificationPayload detects missing fields in a 2xx body.
type classificationPayload struct {
	TB     *float64 `json:"result_tb"`
	NonTB  *float64 `json:"result_no_tb"`
	Normal *float64 `json:"result_normal"`
}

var _ service.ClassificationService = (*Client)(nil)

// Classify uploads one radiograph and returns the classification.
func (c *Client) Classify(ctx context.Context, sub service.Submission) (model.ClassificationResponse, error) {
	if sub.Image.IsZero() {
		return model.ClassificationResponse{}, common.ErrMissingImage
	}

	body, contentType, err := buildMultipart(sub)
	if err != nil {
		return model.ClassificationResponse{}, common.Transport("build upload", err)
	}

	result, err := c.execute(endpointClassify, func() (any, error) {
		return c.postClassification(ctx, body, contentType)
	})
	if err != nil {
		return model.ClassificationResponse{}, err
	}

	resp, ok := result.(model.ClassificationResponse)
	if !ok {
		return model.ClassificationResponse{}, common.Transport("classify", fmt.Errorf("unexpected result type %T", result))
	}
	return resp, nil
}

func (c *Client) postClassification(ctx context.Context, body []byte, contentType string) (model.ClassificationResponse, error) {
	var reader io.Reader = bytes.NewReader(body)
	if c.progress != nil {
		if w := c.progress(int64(len(body))); w != nil {
			reader = io.TeeReader(reader, w)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseAdd+classifyPath, reader)
	if err != nil {
		return model.ClassificationResponse{}, common.Transport("create classification request", err)
	}
	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.ClassificationResponse{}, common.Transport("send classification request", err)
	}

	if !isSuccess(resp.StatusCode) {
		// The status alone decides a rejection; the body is informational.
		data, readErr := readBody(resp)
		fields := common.Fields{"status": resp.StatusCode}
		if readErr != nil {
			fields["read_error"] = readErr.Error()
		}
		common.LogDebug("Classification rejected", fields)
		return model.ClassificationResponse{}, &RejectionError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	data, err := readBody(resp)
	if err != nil {
		return model.ClassificationResponse{}, common.Transport("read classification response", err)
	}

	var payload classificationPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return model.ClassificationResponse{}, common.Transport("decode classification response", err)
	}
	if payload.TB == nil || payload.NonTB == nil || payload.Normal == nil {
		return model.ClassificationResponse{}, common.Transport("decode classification response",
			fmt.Errorf("response is missing result fields"))
	}

	return model.ClassificationResponse{
		TB:     *payload.TB,
		NonTB:  *payload.NonTB,
		Normal: *payload.Normal,
	}, nil
}

// buildMultipart encodes the submission as the endpoint's form body.
func buildMultipart(sub service.Submission) ([]byte, string, error) {
	f, err := os.Open(sub.Image.URI)
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField(FieldPatientID, sub.PatientID); err != nil {
		return nil, "", err
	}
	if err := w.WriteField(FieldPhysicianID, sub.PhysicianID); err != nil {
		return nil, "", err
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, FieldImage, ImageFileName))
	header.Set("Content-Type", ImageContentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("copy image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
