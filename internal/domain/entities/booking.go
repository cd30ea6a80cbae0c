package entities

import (
	"encoding/json"
	"time"
)

// CompanySnapshot is the embedded copy of a company taken when a booking is
// created. It is a value copy, not a reference: later edits to the live
// company must not show through on existing bookings.
type CompanySnapshot struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Avatar      string     `json:"avatar,omitempty"`
	Website     string     `json:"website,omitempty"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	Address     Address    `json:"location"`
	StoreHours  StoreHours `json:"store_hours"`
	Description string     `json:"description,omitempty"`
}

// ServiceSnapshot is the embedded copy of a service taken when a booking is
// created, preserving the price and details the user agreed to.
type ServiceSnapshot struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	ServiceDuration int               `json:"service_duration"`
	Price           string            `json:"price,omitempty"`
	BookOnline      bool              `json:"book_online"`
	CallToBook      bool              `json:"call_to_book"`
	BookSite        bool              `json:"book_site"`
	BookSiteLink    string            `json:"book_site_link,omitempty"`
	IntakeForm      []IntakeFormField `json:"intake_form,omitempty"`
}

// NewCompanySnapshot copies the bookable fields of a company by value.
func NewCompanySnapshot(c *Company) CompanySnapshot {
	return CompanySnapshot{
		ID:          c.ID,
		Name:        c.Name,
		Avatar:      c.Avatar,
		Website:     c.Website,
		Phone:       c.Phone,
		Email:       c.Email,
		Address:     c.Address,
		StoreHours:  c.StoreHours,
		Description: c.Description,
	}
}

// NewServiceSnapshot copies a service by value, including its intake form.
func NewServiceSnapshot(s Service) ServiceSnapshot {
	snap := ServiceSnapshot{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		ServiceDuration: s.ServiceDuration,
		Price:           s.Price,
		BookOnline:      s.BookOnline,
		CallToBook:      s.CallToBook,
		BookSite:        s.BookSite,
		BookSiteLink:    s.BookSiteLink,
	}
	if len(s.IntakeForm) > 0 {
		snap.IntakeForm = make([]IntakeFormField, len(s.IntakeForm))
		copy(snap.IntakeForm, s.IntakeForm)
	}
	return snap
}

// Comment is a message attached to a booking, carrying the commenter's name
// and avatar denormalized at write time.
type Comment struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user"`
	CompanyID     string          `json:"company,omitempty"`
	CompanyUserID string          `json:"company_user,omitempty"`
	Text          string          `json:"text"`
	Name          string          `json:"name,omitempty"`
	Avatar        string          `json:"avatar,omitempty"`
	Attachments   json.RawMessage `json:"attachments,omitempty"`
	Date          time.Time       `json:"date"`
}

// IntakeFormAnswer pairs a form field definition with the submitted value.
type IntakeFormAnswer struct {
	FormFieldID   string          `json:"formfield,omitempty"`
	FieldName     string          `json:"field_name"`
	FieldLabel    string          `json:"field_label"`
	FieldCategory string          `json:"field_category"`
	FieldType     string          `json:"field_type"`
	Value         json.RawMessage `json:"value,omitempty"`
	Options       []FieldOption   `json:"options,omitempty"`
}

// Booking is a scheduled appointment. The embedded company and service
// snapshots are immutable after creation; only the two calendar link fields
// may change through the update path.
type Booking struct {
	ID        string          `json:"id" db:"id"`
	UserID    string          `json:"user_id" db:"user_id"`
	CompanyID string          `json:"company_id" db:"company_id"`
	ServiceID string          `json:"service_id" db:"service_id"`
	Text      string          `json:"text,omitempty" db:"text"`
	Company   CompanySnapshot `json:"company" db:"-"`
	Service   ServiceSnapshot `json:"service" db:"-"`

	StartDate time.Time `json:"start_date" db:"start_date"`
	StartTime time.Time `json:"start_time" db:"start_time"`
	Duration  int       `json:"duration" db:"duration"`

	UserCalender     string `json:"user_calender,omitempty" db:"user_calender"`
	BusinessCalender string `json:"business_calender,omitempty" db:"business_calender"`

	Comments    []Comment          `json:"comments" db:"-"`
	IntakeForm  []IntakeFormAnswer `json:"intake_form,omitempty" db:"-"`
	DateCreated time.Time          `json:"date_created" db:"created_at"`

	// User carries the owner's fields when a query attaches them.
	User *ExtendedUser `json:"user,omitempty" db:"-"`
}

// CommentByID returns the comment with the given id, or nil.
func (b *Booking) CommentByID(commentID string) *Comment {
	for i := range b.Comments {
		if b.Comments[i].ID == commentID {
			return &b.Comments[i]
		}
	}
	return nil
}

// AddComment appends a comment to the booking.
func (b *Booking) AddComment(c Comment) {
	b.Comments = append(b.Comments, c)
}

// RemoveComment splices out the comment matching the given id. Removal is
// keyed on the comment id, not on the author's position in the list.
func (b *Booking) RemoveComment(commentID string) bool {
	for i := range b.Comments {
		if b.Comments[i].ID == commentID {
			b.Comments = append(b.Comments[:i], b.Comments[i+1:]...)
			return true
		}
	}
	return false
}
