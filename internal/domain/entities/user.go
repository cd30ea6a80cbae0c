package entities

import (
	"encoding/json"
	"time"
)

// User represents an account holder. Passwords are stored bcrypt-hashed and
// never serialized.
type User struct {
	ID          string     `json:"id" db:"id"`
	FirstName   string     `json:"first_name" db:"first_name"`
	LastName    string     `json:"last_name" db:"last_name"`
	Prefix      string     `json:"prefix,omitempty" db:"prefix"`
	Email       string     `json:"email" db:"email"`
	Phone       string     `json:"phone" db:"phone"`
	Password    string     `json:"-" db:"password"`
	Avatar      string     `json:"avatar,omitempty" db:"avatar"`
	ResetToken  string     `json:"-" db:"reset_token"`
	ExpireToken *time.Time `json:"-" db:"expire_token"`

	// Third-party calendar auth blobs, stored opaque. The business variants
	// belong to the user's company-side calendar.
	GoogleRefreshToken         string          `json:"-" db:"google_refresh_token"`
	GoogleAuth                 json.RawMessage `json:"google_auth,omitempty" db:"google_auth"`
	GoogleUser                 json.RawMessage `json:"google_user,omitempty" db:"google_user"`
	GoogleRefreshTokenBusiness string          `json:"-" db:"google_refresh_token_business"`
	GoogleAuthBusiness         json.RawMessage `json:"google_auth_business,omitempty" db:"google_auth_business"`
	GoogleUserBusiness         json.RawMessage `json:"google_user_business,omitempty" db:"google_user_business"`

	IsAdmin          bool              `json:"is_admin" db:"is_admin"`
	IntakeFormFields []IntakeFormField `json:"intake_form_fields,omitempty" db:"-"`
	CreatedAt        time.Time         `json:"date_created" db:"created_at"`
}

// IntakeFormField is one entry of a user's or service's intake form. It
// references a reusable FormField definition plus the captured value.
type IntakeFormField struct {
	FormFieldID   string          `json:"formfield,omitempty"`
	FieldName     string          `json:"field_name"`
	FieldLabel    string          `json:"field_label"`
	FieldCategory string          `json:"field_category"`
	FieldType     string          `json:"field_type"`
	IsRequired    bool            `json:"is_required,omitempty"`
	Value         json.RawMessage `json:"value,omitempty"`
	Options       []FieldOption   `json:"options,omitempty"`
}

// FieldOption is a selectable option of a choice-type form field.
type FieldOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// PublicUser is the subset of user fields attached to listings.
type PublicUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

// ExtendedUser adds the stored third-party auth blobs to the public fields.
// Attached where the caller needs calendar access on behalf of the user.
type ExtendedUser struct {
	PublicUser
	GoogleAuth         json.RawMessage `json:"google_auth,omitempty"`
	GoogleUser         json.RawMessage `json:"google_user,omitempty"`
	GoogleAuthBusiness json.RawMessage `json:"google_auth_business,omitempty"`
	GoogleUserBusiness json.RawMessage `json:"google_user_business,omitempty"`
}

// Public returns the user's public fields.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Avatar:    u.Avatar,
	}
}

// Extended returns the user's public fields plus third-party auth blobs.
func (u *User) Extended() *ExtendedUser {
	return &ExtendedUser{
		PublicUser:         *u.Public(),
		GoogleAuth:         u.GoogleAuth,
		GoogleUser:         u.GoogleUser,
		GoogleAuthBusiness: u.GoogleAuthBusiness,
		GoogleUserBusiness: u.GoogleUserBusiness,
	}
}

// FullName returns the user's display name as denormalized onto comments.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
