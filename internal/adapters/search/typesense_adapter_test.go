package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyFromDocument(t *testing.T) {
	company := companyFromDocument(map[string]interface{}{
		"id":          "comp-1",
		"name":        "Lakeshore Dental",
		"description": "Family dentistry",
		"city":        "Toronto",
		"geolocation": []interface{}{43.62, -79.48},
		"created_at":  float64(1700000000),
	})

	require.NotNil(t, company)
	assert.Equal(t, "comp-1", company.ID)
	assert.Equal(t, "Lakeshore Dental", company.Name)
	assert.Equal(t, "Toronto", company.Address.City)
	// GeoJSON order is [lng, lat]
	assert.Equal(t, []float64{-79.48, 43.62}, company.Geolocation.Coordinates)
	assert.Equal(t, time.Unix(1700000000, 0), company.CreatedAt)
}

func TestCompanyFromDocument_MissingID(t *testing.T) {
	assert.Nil(t, companyFromDocument(map[string]interface{}{
		"name": "Lakeshore Dental",
	}))
	assert.Nil(t, companyFromDocument(map[string]interface{}{
		"id": 42,
	}))
}

func TestCompanyFromDocument_ToleratesBadFields(t *testing.T) {
	company := companyFromDocument(map[string]interface{}{
		"id":          "comp-1",
		"name":        7,
		"geolocation": "not-a-point",
	})

	require.NotNil(t, company)
	assert.Equal(t, "comp-1", company.ID)
	assert.Empty(t, company.Name)
	assert.Equal(t, []float64{0, 0}, company.Geolocation.Coordinates)
}

func TestHaversineMeters(t *testing.T) {
	assert.Zero(t, haversineMeters(43.65, -79.38, 43.65, -79.38))

	// One degree of latitude is roughly 111.2 km
	d := haversineMeters(43.0, -79.38, 44.0, -79.38)
	assert.InDelta(t, 111195, d, 100)
}
