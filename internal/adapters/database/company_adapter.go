package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/appointmentcake/backend/internal/domain/entities"
	"github.com/appointmentcake/backend/internal/domain/repositories"
	"github.com/appointmentcake/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/appointmentcake/backend/pkg/errors"
)

// CompanyAdapter implements the CompanyRepository interface. Sub-documents
// (likes, services, reviews, hours) live in JSONB columns and are read and
// written whole.
type CompanyAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCompanyAdapter creates a new company adapter
func NewCompanyAdapter(client *postgres.Client) repositories.CompanyRepository {
	return &CompanyAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var companyColumns = []interface{}{
	"id", "user_id", "name", "avatar", "website", "description",
	"phone", "email", "fax", "likes", "geolocation", "location",
	"latitude", "longitude", "is_admin", "services", "social",
	"store_hours", "reviews", "created_at",
}

const companySelectSQL = `
	c.id, c.user_id, c.name, c.avatar, c.website, c.description,
	c.phone, c.email, c.fax, c.likes, c.geolocation, c.location,
	c.latitude, c.longitude, c.is_admin, c.services, c.social,
	c.store_hours, c.reviews, c.created_at`

const ownerSelectSQL = `
	u.id, u.email, u.first_name, u.last_name, u.phone, u.avatar`

func (a *CompanyAdapter) record(company *entities.Company) (goqu.Record, error) {
	likes, err := marshalJSONB(company.Likes)
	if err != nil {
		return nil, err
	}
	geolocation, err := marshalJSONB(company.Geolocation)
	if err != nil {
		return nil, err
	}
	location, err := marshalJSONB(company.Address)
	if err != nil {
		return nil, err
	}
	services, err := marshalJSONB(company.Services)
	if err != nil {
		return nil, err
	}
	social, err := marshalJSONB(company.Social)
	if err != nil {
		return nil, err
	}
	storeHours, err := marshalJSONB(company.StoreHours)
	if err != nil {
		return nil, err
	}
	reviews, err := marshalJSONB(company.Reviews)
	if err != nil {
		return nil, err
	}

	// Flat latitude/longitude columns mirror the indexed point so proximity
	// SQL does not have to dig into JSONB.
	var lat, lng float64
	if len(company.Geolocation.Coordinates) == 2 {
		lng = company.Geolocation.Coordinates[0]
		lat = company.Geolocation.Coordinates[1]
	}

	return goqu.Record{
		"id":          company.ID,
		"user_id":     company.UserID,
		"name":        company.Name,
		"avatar":      company.Avatar,
		"website":     company.Website,
		"description": company.Description,
		"phone":       company.Phone,
		"email":       company.Email,
		"fax":         company.Fax,
		"likes":       likes,
		"geolocation": geolocation,
		"location":    location,
		"latitude":    lat,
		"longitude":   lng,
		"is_admin":    company.IsAdmin,
		"services":    services,
		"social":      social,
		"store_hours": storeHours,
		"reviews":     reviews,
		"created_at":  company.CreatedAt,
	}, nil
}

func scanCompany(row interface{ Scan(...interface{}) error }, extras ...interface{}) (*entities.Company, error) {
	company := &entities.Company{}
	var likes, geolocation, location, services, social, storeHours, reviews []byte
	var lat, lng float64

	dest := []interface{}{
		&company.ID,
		&company.UserID,
		&company.Name,
		&company.Avatar,
		&company.Website,
		&company.Description,
		&company.Phone,
		&company.Email,
		&company.Fax,
		&likes,
		&geolocation,
		&location,
		&lat,
		&lng,
		&company.IsAdmin,
		&services,
		&social,
		&storeHours,
		&reviews,
		&company.CreatedAt,
	}
	dest = append(dest, extras...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if err := unmarshalJSONB(likes, &company.Likes); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(geolocation, &company.Geolocation); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(location, &company.Address); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(services, &company.Services); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(social, &company.Social); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(storeHours, &company.StoreHours); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(reviews, &company.Reviews); err != nil {
		return nil, err
	}

	return company, nil
}

// Create creates a new company
func (a *CompanyAdapter) Create(ctx context.Context, company *entities.Company) error {
	record, err := a.record(company)
	if err != nil {
		return apperrors.NewInternalError("failed to encode company", err)
	}

	query, args, err := a.db.Insert("companies").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create company", err)
	}

	return nil
}

// GetByID retrieves a company by ID
func (a *CompanyAdapter) GetByID(ctx context.Context, id string) (*entities.Company, error) {
	query, args, err := a.db.Select(companyColumns...).
		From("companies").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	company, err := scanCompany(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("company with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get company", err)
	}

	return company, nil
}

// GetByUserID retrieves the company owned by a user
func (a *CompanyAdapter) GetByUserID(ctx context.Context, userID string) (*entities.Company, error) {
	query, args, err := a.db.Select(companyColumns...).
		From("companies").
		Where(goqu.Ex{"user_id": userID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	company, err := scanCompany(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("There is no company for this user")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get company", err)
	}

	return company, nil
}

// Update overwrites a company row, sub-document columns included
func (a *CompanyAdapter) Update(ctx context.Context, company *entities.Company) error {
	record, err := a.record(company)
	if err != nil {
		return apperrors.NewInternalError("failed to encode company", err)
	}
	delete(record, "id")
	delete(record, "created_at")

	query, args, err := a.db.Update("companies").
		Set(record).
		Where(goqu.Ex{"id": company.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update company", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check update result", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("company with id %s not found", company.ID))
	}

	return nil
}

// Delete deletes a company
func (a *CompanyAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("companies").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete company", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check delete result", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("company with id %s not found", id))
	}

	return nil
}

// List retrieves companies with filters, owner attached
func (a *CompanyAdapter) List(ctx context.Context, filter repositories.CompanyFilter) ([]*entities.Company, error) {
	query := `
		SELECT` + companySelectSQL + `,` + ownerSelectSQL + `
		FROM companies c
		JOIN users u ON u.id = c.user_id`

	args := []interface{}{}
	argCount := 1
	conds := []string{}

	if filter.UserID != "" {
		conds = append(conds, fmt.Sprintf("c.user_id = $%d", argCount))
		args = append(args, filter.UserID)
		argCount++
	}
	if filter.IsAdmin != nil {
		conds = append(conds, fmt.Sprintf("c.is_admin = $%d", argCount))
		args = append(args, *filter.IsAdmin)
		argCount++
	}
	if filter.LikedByUserID != "" {
		// JSONB containment over the like list
		conds = append(conds, fmt.Sprintf(`c.likes @> $%d`, argCount))
		args = append(args, fmt.Sprintf(`[{"user":%q}]`, filter.LikedByUserID))
		argCount++
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	query += " ORDER BY c.created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filter.Limit)
		argCount++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filter.Offset)
	}

	return a.queryCompaniesWithOwner(ctx, query, args...)
}

// Search runs a keyword search across company text fields. It returns one
// page of matches plus the unpaginated match count.
func (a *CompanyAdapter) Search(ctx context.Context, params repositories.KeywordSearchParams) ([]*entities.Company, int, error) {
	pattern := "%" + params.Query + "%"

	where := `
		WHERE (c.name ILIKE $1
		   OR c.email ILIKE $1
		   OR c.phone ILIKE $1
		   OR c.website ILIKE $1
		   OR c.description ILIKE $1
		   OR c.location->>'street_address' ILIKE $1
		   OR c.location->>'city' ILIKE $1
		   OR c.location->>'province' ILIKE $1
		   OR c.location->>'postal' ILIKE $1
		   OR c.location->>'country' ILIKE $1)`

	countArgs := []interface{}{pattern}
	if params.IsAdmin != nil {
		where += " AND c.is_admin = $2"
		countArgs = append(countArgs, *params.IsAdmin)
	}

	countQuery := "SELECT COUNT(*) FROM companies c" + where

	var total int
	if err := a.client.DB().QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to count companies", err)
	}

	query := `
		SELECT` + companySelectSQL + `,` + ownerSelectSQL + `
		FROM companies c
		JOIN users u ON u.id = c.user_id` + where + `
		ORDER BY c.created_at DESC`

	args := append([]interface{}{}, countArgs...)
	argCount := len(args) + 1

	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, params.Limit)
		argCount++
	}
	if params.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, params.Offset)
	}

	companies, err := a.queryCompaniesWithOwner(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return companies, total, nil
}

// SearchNearby returns companies within a radius of a point, nearest first.
// Plain haversine over the flat latitude/longitude columns; the search index
// adapter covers the same query when Typesense is configured.
func (a *CompanyAdapter) SearchNearby(ctx context.Context, params repositories.GeoSearchParams) ([]*entities.Company, error) {
	query := `
		SELECT * FROM (
			SELECT` + companySelectSQL + `,` + ownerSelectSQL + `,
				(6371000 * acos(least(1.0,
					cos(radians($1)) * cos(radians(c.latitude)) *
					cos(radians(c.longitude) - radians($2)) +
					sin(radians($1)) * sin(radians(c.latitude))
				))) AS distance_meters
			FROM companies c
			JOIN users u ON u.id = c.user_id
		) nearby
		WHERE distance_meters <= $3
		ORDER BY distance_meters`

	args := []interface{}{params.Latitude, params.Longitude, params.RadiusMeters}
	argCount := 4

	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, params.Limit)
		argCount++
	}
	if params.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, params.Offset)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to search companies", err)
	}
	defer rows.Close()

	companies := []*entities.Company{}
	for rows.Next() {
		owner := &entities.PublicUser{}
		var distance float64
		company, err := scanCompany(rows,
			&owner.ID, &owner.Email, &owner.FirstName, &owner.LastName,
			&owner.Phone, &owner.Avatar, &distance,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan company", err)
		}
		company.Owner = owner
		company.DistanceMeters = &distance
		companies = append(companies, company)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating companies", err)
	}

	return companies, nil
}

func (a *CompanyAdapter) queryCompaniesWithOwner(ctx context.Context, query string, args ...interface{}) ([]*entities.Company, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list companies", err)
	}
	defer rows.Close()

	companies := []*entities.Company{}
	for rows.Next() {
		owner := &entities.PublicUser{}
		company, err := scanCompany(rows,
			&owner.ID, &owner.Email, &owner.FirstName, &owner.LastName,
			&owner.Phone, &owner.Avatar,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan company", err)
		}
		company.Owner = owner
		companies = append(companies, company)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating companies", err)
	}

	return companies, nil
}
