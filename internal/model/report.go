package model

// ReportPatient is the patient block of an outbound report.
type ReportPatient struct {
	Name  string `json:"nombre"`
	Email string `json:"email"`
}

// ReportEntry is one result line of an outbound report.
type ReportEntry struct {
	Date   string  `json:"fecha"`
	TB     float64 `json:"tuberculosis"`
	NonTB  float64 `json:"no_tuberculosis"`
	Normal float64 `json:"normal"`
}

// ReportRequest is the body sent to the reporting endpoint.
type ReportRequest struct {
	Patient ReportPatient `json:"paciente"`
	Results []ReportEntry `json:"resultados"`
}

// NewReportRequest builds a report for the patient from records in the given order.
func NewReportRequest(patient Patient, records []ClassificationRecord) ReportRequest {
	entries := make([]ReportEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, ReportEntry{
			TB:     r.TB,
			NonTB:  r.NonTB,
			Normal: r.Normal,
			Date:   r.ExamDate.Format(),
		})
	}
	return ReportRequest{
		Patient: ReportPatient{
			Name:  patient.Name,
			Email: patient.Email,
		},
		Results: entries,
	}
}
