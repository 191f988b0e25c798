package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/common"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
)

var _ service.ResultsService = (*Client)(nil)

// ListResults fetches every historical classification record of a patient.
func (c *Client) ListResults(ctx context.Context, patientID string) ([]model.ClassificationRecord, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, fmt.Errorf("%w: patient id is required", model.ErrInvalidPatient)
	}

	result, err := c.execute(endpointResults, func() (any, error) {
		return c.getResults(ctx, patientID)
	})
	if err != nil {
		return nil, err
	}

	records, ok := result.([]model.ClassificationRecord)
	if !ok {
		return nil, common.Transport("list results", fmt.Errorf("unexpected result type %T", result))
	}
	return records, nil
}

func (c *Client) getResults(ctx context.Context, patientID string) ([]model.ClassificationRecord, error) {
	endpoint := c.baseResultados + "/resultados/" + url.PathEscape(patientID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, common.Transport("create results request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, common.Transport("send results request", err)
	}

	data, err := readBody(resp)
	if err != nil {
		return nil, common.Transport("read results response", err)
	}
	if !isSuccess(resp.StatusCode) {
		return nil, common.Transport("list results", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, common.Transport("decode results response", err)
	}
	return decodeRecords(raw), nil
}

// decodeRecords keeps every record with a usable exam date. A record whose
// date is missing, null or unparseable is skipped with a warning, so one bad
// row neither hides the rest nor reaches a report as 0001-01-01.
func decodeRecords(raw []json.RawMessage) []model.ClassificationRecord {
	records := make([]model.ClassificationRecord, 0, len(raw))
	for i, item := range raw {
		var r model.ClassificationRecord
		if err := json.Unmarshal(item, &r); err != nil {
			slog.Warn("Skipping unreadable result record", "index", i, "error", err)
			continue
		}
		if r.ExamDate.IsZero() {
			slog.Warn("Skipping result record without exam date", "index", i, "record_id", string(r.ID))
			continue
		}
		records = append(records, r)
	}
	return records
}
