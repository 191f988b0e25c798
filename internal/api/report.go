package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/common"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/service"
)

const reportPath = "/email/reporte"

var _ service.ReportService = (*Client)(nil)

// SendReport posts a compiled report. Only the status is consumed.
func (c *Client) SendReport(ctx context.Context, report model.ReportRequest) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if c.reportLimiter != nil {
		if err := c.reportLimiter.Wait(ctx); err != nil {
			return common.Transport("wait for report slot", err)
		}
	}

	_, err = c.execute(endpointReport, func() (any, error) {
		return nil, c.postReport(ctx, body)
	})
	return err
}

func (c *Client) postReport(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseReporte+reportPath, bytes.NewReader(body))
	if err != nil {
		return common.Transport("create report request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return common.Transport("send report request", err)
	}
	if _, err := readBody(resp); err != nil {
		return common.Transport("read report response", err)
	}
	if !isSuccess(resp.StatusCode) {
		return common.Transport("send report", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return nil
}
