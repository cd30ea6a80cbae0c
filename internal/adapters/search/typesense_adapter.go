package search

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/appointmentcake/backend/internal/domain/entities"
	"github.com/appointmentcake/backend/internal/domain/repositories"
	tsclient "github.com/appointmentcake/backend/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter implements company proximity search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements CompanySearchRepository
var _ repositories.CompanySearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index indexes a company
func (a *TypesenseAdapter) Index(ctx context.Context, company *entities.Company) error {
	var lat, lng float64
	if len(company.Geolocation.Coordinates) == 2 {
		lng = company.Geolocation.Coordinates[0]
		lat = company.Geolocation.Coordinates[1]
	}

	document := map[string]interface{}{
		"id":          company.ID,
		"name":        company.Name,
		"description": company.Description,
		"city":        company.Address.City,
		"geolocation": []float64{lat, lng},
		"likes":       len(company.Likes),
		"created_at":  company.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(tsclient.CompaniesCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index company: %w", err)
	}

	return nil
}

// Delete removes a company from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.CompaniesCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete company from index: %w", err)
	}
	return nil
}

// SearchNearby searches the index by proximity, nearest first
func (a *TypesenseAdapter) SearchNearby(ctx context.Context, params repositories.GeoSearchParams) ([]*entities.Company, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String("*"),
		QueryBy:  pointer.String("name"),
		FilterBy: pointer.String(fmt.Sprintf("geolocation:(%f, %f, %f km)", params.Latitude, params.Longitude, params.RadiusMeters/1000)),
		SortBy:   pointer.String(fmt.Sprintf("geolocation(%f, %f):asc", params.Latitude, params.Longitude)),
		Page:     pointer.Int(params.Offset/limit + 1),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.CompaniesCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search companies: %w", err)
	}

	companies := []*entities.Company{}
	if result.Hits == nil {
		return companies, nil
	}

	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		company := companyFromDocument(*hit.Document)
		if company == nil {
			continue
		}

		var lat, lng float64
		if len(company.Geolocation.Coordinates) == 2 {
			lng = company.Geolocation.Coordinates[0]
			lat = company.Geolocation.Coordinates[1]
		}
		meters := haversineMeters(params.Latitude, params.Longitude, lat, lng)
		company.DistanceMeters = &meters

		companies = append(companies, company)
	}

	return companies, nil
}

// companyFromDocument rebuilds a company from the indexed summary fields.
// Documents without an id are skipped; callers fetch the full row from the
// database by id when they need more than the summary.
func companyFromDocument(doc map[string]interface{}) *entities.Company {
	id, ok := doc["id"].(string)
	if !ok || id == "" {
		return nil
	}

	var lat, lng float64
	if loc, ok := doc["geolocation"].([]interface{}); ok && len(loc) == 2 {
		lat = parseFloat(loc[0])
		lng = parseFloat(loc[1])
	}

	company := &entities.Company{
		ID:          id,
		Geolocation: entities.NewGeoPoint(lat, lng),
	}
	if val, ok := doc["name"].(string); ok {
		company.Name = val
	}
	if val, ok := doc["description"].(string); ok {
		company.Description = val
	}
	if val, ok := doc["city"].(string); ok {
		company.Address.City = val
	}
	if val, ok := doc["created_at"]; ok {
		company.CreatedAt = time.Unix(int64(parseFloat(val)), 0)
	}

	return company
}

// parseFloat is a tolerant numeric cast for document fields that may come
// back as strings.
func parseFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	default:
		return 0
	}
}

const earthRadiusMeters = 6371000

// haversineMeters returns the great circle distance between two points.
func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
