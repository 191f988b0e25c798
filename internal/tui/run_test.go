package tui

import (
	"context"
	"testing"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRejectsIncompletePatient(t *testing.T) {
	err := Run(context.Background(), NavigateMsg{Patient: model.Patient{ID: "42"}}, newFixture().options()...)

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidPatient)
}

func TestRunRequiresServices(t *testing.T) {
	err := Run(context.Background(), NavigateMsg{Patient: testPatient})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote services")
}

func TestScreenString(t *testing.T) {
	assert.Equal(t, "scanner", ScreenScanner.String())
	assert.Equal(t, "results", ScreenResults.String())
	assert.Equal(t, "unknown", Screen(9).String())
}
