package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) ExamDate {
	t.Helper()
	d, err := ParseExamDate(s)
	require.NoError(t, err)
	return d
}

func TestNewReportRequest(t *testing.T) {
	patient := Patient{ID: "7", PhysicianID: "3", Email: "ana@example.com", Name: "Ana"}
	records := []ClassificationRecord{
		{ID: "r1", TB: 1, NonTB: 2, Normal: 97, ExamDate: mustDate(t, "2024-01-05")},
		{ID: "r2", TB: 50, NonTB: 0, Normal: 50, ExamDate: mustDate(t, "2024-02-10")},
	}

	req := NewReportRequest(patient, records)

	assert.Equal(t, "Ana", req.Patient.Name)
	assert.Equal(t, "ana@example.com", req.Patient.Email)
	require.Len(t, req.Results, 2)
	assert.Equal(t, "2024-01-05", req.Results[0].Date)
	assert.Equal(t, "2024-02-10", req.Results[1].Date)
	assert.InDelta(t, 97.0, req.Results[0].Normal, 1e-9)
	assert.InDelta(t, 50.0, req.Results[1].TB, 1e-9)
}

func TestReportRequest_WireFormat(t *testing.T) {
	req := NewReportRequest(
		Patient{Name: "Ana", Email: "ana@example.com"},
		[]ClassificationRecord{{ID: "r1", TB: 1, NonTB: 2, Normal: 97, ExamDate: mustDate(t, "2024-01-05")}},
	)

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	paciente, ok := decoded["paciente"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ana", paciente["nombre"])
	assert.Equal(t, "ana@example.com", paciente["email"])

	resultados, ok := decoded["resultados"].([]any)
	require.True(t, ok)
	require.Len(t, resultados, 1)
	entry := resultados[0].(map[string]any)
	assert.Equal(t, "2024-01-05", entry["fecha"])
	assert.InDelta(t, 1.0, entry["tuberculosis"], 1e-9)
	assert.InDelta(t, 2.0, entry["no_tuberculosis"], 1e-9)
	assert.InDelta(t, 97.0, entry["normal"], 1e-9)
}

func TestNewReportRequest_Empty(t *testing.T) {
	req := NewReportRequest(Patient{Name: "Ana", Email: "ana@example.com"}, nil)
	assert.NotNil(t, req.Results)
	assert.Empty(t, req.Results)
}

func TestPatient_Validate(t *testing.T) {
	tests := []struct {
		name    string
		patient Patient
		wantErr bool
	}{
		{name: "complete", patient: Patient{ID: "1", PhysicianID: "2", Email: "a@b.c", Name: "A"}},
		{name: "missing id", patient: Patient{PhysicianID: "2", Email: "a@b.c"}, wantErr: true},
		{name: "missing physician", patient: Patient{ID: "1", Email: "a@b.c"}, wantErr: true},
		{name: "missing email", patient: Patient{ID: "1", PhysicianID: "2"}, wantErr: true},
		{name: "bad email", patient: Patient{ID: "1", PhysicianID: "2", Email: "nope"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patient.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPatient)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
