package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/appointmentcake/backend/pkg/errors"
)

func TestRespondWithAppError_UnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("loading booking: %w", apperrors.NewNotFoundError("Booking not found"))

	w := httptest.NewRecorder()
	respondWithAppError(w, wrapped)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "Booking not found", response["error"])
}

func TestRespondWithAppError_UnknownErrorIsOpaque(t *testing.T) {
	w := httptest.NewRecorder()
	respondWithAppError(w, fmt.Errorf("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "internal server error", response["error"])
}
