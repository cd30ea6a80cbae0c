package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/appointmentcake/backend/internal/domain/entities"
	"github.com/appointmentcake/backend/internal/domain/repositories"
	"github.com/appointmentcake/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/appointmentcake/backend/pkg/errors"
)

// FormFieldAdapter implements the FormFieldRepository interface
type FormFieldAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFormFieldAdapter creates a new form field adapter
func NewFormFieldAdapter(client *postgres.Client) repositories.FormFieldRepository {
	return &FormFieldAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var formFieldColumns = []interface{}{
	"id", "field_name", "field_label", "field_category", "field_type",
	"default_value", "is_required",
}

func scanFormField(row interface{ Scan(...interface{}) error }) (*entities.FormField, error) {
	field := &entities.FormField{}
	var defaultValue []byte

	err := row.Scan(
		&field.ID,
		&field.FieldName,
		&field.FieldLabel,
		&field.FieldCategory,
		&field.FieldType,
		&defaultValue,
		&field.IsRequired,
	)
	if err != nil {
		return nil, err
	}

	field.DefaultValue = defaultValue
	return field, nil
}

// Create creates a new form field definition
func (a *FormFieldAdapter) Create(ctx context.Context, field *entities.FormField) error {
	record := goqu.Record{
		"id":             field.ID,
		"field_name":     field.FieldName,
		"field_label":    field.FieldLabel,
		"field_category": field.FieldCategory,
		"field_type":     field.FieldType,
		"default_value":  []byte(field.DefaultValue),
		"is_required":    field.IsRequired,
	}

	query, args, err := a.db.Insert("form_fields").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create form field", err)
	}

	return nil
}

// GetByID retrieves a form field definition by ID
func (a *FormFieldAdapter) GetByID(ctx context.Context, id string) (*entities.FormField, error) {
	query, args, err := a.db.Select(formFieldColumns...).
		From("form_fields").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	field, err := scanFormField(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("form field with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get form field", err)
	}

	return field, nil
}

// List retrieves all form field definitions
func (a *FormFieldAdapter) List(ctx context.Context) ([]*entities.FormField, error) {
	query, args, err := a.db.Select(formFieldColumns...).
		From("form_fields").
		Order(goqu.C("field_name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryFormFields(ctx, query, args...)
}

// ListByCategory retrieves the definitions of one category
func (a *FormFieldAdapter) ListByCategory(ctx context.Context, category string) ([]*entities.FormField, error) {
	query, args, err := a.db.Select(formFieldColumns...).
		From("form_fields").
		Where(goqu.Ex{"field_category": category}).
		Order(goqu.C("field_name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryFormFields(ctx, query, args...)
}

// Delete deletes a form field definition
func (a *FormFieldAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("form_fields").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete form field", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check delete result", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("form field with id %s not found", id))
	}

	return nil
}

func (a *FormFieldAdapter) queryFormFields(ctx context.Context, query string, args ...interface{}) ([]*entities.FormField, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list form fields", err)
	}
	defer rows.Close()

	fields := []*entities.FormField{}
	for rows.Next() {
		field, err := scanFormField(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan form field", err)
		}
		fields = append(fields, field)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating form fields", err)
	}

	return fields, nil
}
