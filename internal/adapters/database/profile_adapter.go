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

// ProfileAdapter implements the ProfileRepository interface. One row per
// user; experiences and insurance live in JSONB columns.
type ProfileAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProfileAdapter creates a new profile adapter
func NewProfileAdapter(client *postgres.Client) repositories.ProfileRepository {
	return &ProfileAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

const profileSelectSQL = `
	p.id, p.user_id, p.prefix, p.suffix, p.birthday, p.bio,
	p.social, p.experiences, p.insurance, p.created_at,
	u.id, u.email, u.first_name, u.last_name, u.phone, u.avatar`

func (a *ProfileAdapter) record(profile *entities.Profile) (goqu.Record, error) {
	social, err := marshalJSONB(profile.Social)
	if err != nil {
		return nil, err
	}
	experiences, err := marshalJSONB(profile.Experiences)
	if err != nil {
		return nil, err
	}
	insurance, err := marshalJSONB(profile.Insurance)
	if err != nil {
		return nil, err
	}

	return goqu.Record{
		"id":          profile.ID,
		"user_id":     profile.UserID,
		"prefix":      profile.Prefix,
		"suffix":      profile.Suffix,
		"birthday":    profile.Birthday,
		"bio":         profile.Bio,
		"social":      social,
		"experiences": experiences,
		"insurance":   insurance,
		"created_at":  profile.CreatedAt,
	}, nil
}

func scanProfile(row interface{ Scan(...interface{}) error }) (*entities.Profile, error) {
	profile := &entities.Profile{}
	user := &entities.PublicUser{}
	var birthday sql.NullTime
	var social, experiences, insurance []byte

	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Prefix,
		&profile.Suffix,
		&birthday,
		&profile.Bio,
		&social,
		&experiences,
		&insurance,
		&profile.CreatedAt,
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Avatar,
	)
	if err != nil {
		return nil, err
	}

	if birthday.Valid {
		profile.Birthday = &birthday.Time
	}
	if err := unmarshalJSONB(social, &profile.Social); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(experiences, &profile.Experiences); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(insurance, &profile.Insurance); err != nil {
		return nil, err
	}
	if profile.Experiences == nil {
		profile.Experiences = []entities.Experience{}
	}
	if profile.Insurance == nil {
		profile.Insurance = []entities.Insurance{}
	}
	profile.User = user

	return profile, nil
}

// Upsert creates the profile for a user or overwrites the existing one
func (a *ProfileAdapter) Upsert(ctx context.Context, profile *entities.Profile) error {
	record, err := a.record(profile)
	if err != nil {
		return apperrors.NewInternalError("failed to encode profile", err)
	}

	update := goqu.Record{}
	for k, v := range record {
		if k == "id" || k == "user_id" || k == "created_at" {
			continue
		}
		update[k] = v
	}

	query, args, err := a.db.Insert("profiles").
		Rows(record).
		OnConflict(goqu.DoUpdate("user_id", update)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to upsert profile", err)
	}

	return nil
}

// GetByUserID retrieves a user's profile with public user fields attached
func (a *ProfileAdapter) GetByUserID(ctx context.Context, userID string) (*entities.Profile, error) {
	query := `
		SELECT` + profileSelectSQL + `
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1`

	profile, err := scanProfile(a.client.DB().QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("There is no profile for this user")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get profile", err)
	}

	return profile, nil
}

// Update overwrites a profile row, sub-document columns included
func (a *ProfileAdapter) Update(ctx context.Context, profile *entities.Profile) error {
	record, err := a.record(profile)
	if err != nil {
		return apperrors.NewInternalError("failed to encode profile", err)
	}
	delete(record, "id")
	delete(record, "user_id")
	delete(record, "created_at")

	query, args, err := a.db.Update("profiles").
		Set(record).
		Where(goqu.Ex{"user_id": profile.UserID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update profile", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check update result", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError("There is no profile for this user")
	}

	return nil
}

// DeleteByUserID deletes a user's profile
func (a *ProfileAdapter) DeleteByUserID(ctx context.Context, userID string) error {
	query, args, err := a.db.Delete("profiles").
		Where(goqu.Ex{"user_id": userID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete profile", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check delete result", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("profile for user %s not found", userID))
	}

	return nil
}

// List retrieves all profiles with public user fields attached
func (a *ProfileAdapter) List(ctx context.Context) ([]*entities.Profile, error) {
	query := `
		SELECT` + profileSelectSQL + `
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC`

	rows, err := a.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list profiles", err)
	}
	defer rows.Close()

	profiles := []*entities.Profile{}
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan profile", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating profiles", err)
	}

	return profiles, nil
}
