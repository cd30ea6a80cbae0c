package entities

import (
	"time"
)

// GeoPoint is a GeoJSON-style point. Coordinates are [longitude, latitude].
// A company with unknown coordinates carries [0, 0], never a null point,
// so the geo index always has a value to work with.
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// NewGeoPoint builds the indexed point from a latitude/longitude pair.
func NewGeoPoint(lat, lng float64) GeoPoint {
	if lat == 0 && lng == 0 {
		return GeoPoint{Type: "Point", Coordinates: []float64{0, 0}}
	}
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// DayHours is one weekday's opening window.
type DayHours struct {
	Open      bool   `json:"open"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// StoreHours holds opening hours per weekday.
type StoreHours struct {
	Sunday    DayHours `json:"sunday"`
	Monday    DayHours `json:"monday"`
	Tuesday   DayHours `json:"tuesday"`
	Wednesday DayHours `json:"wednesday"`
	Thursday  DayHours `json:"thursday"`
	Friday    DayHours `json:"friday"`
	Saturday  DayHours `json:"saturday"`
}

// Social holds a company's social media links.
type Social struct {
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Address is a company's civic address. Lat/Lng mirror the indexed point for
// display purposes.
type Address struct {
	Country        string  `json:"country,omitempty"`
	StreetAddress  string  `json:"street_address"`
	StreetAddress2 string  `json:"street_address_2,omitempty"`
	City           string  `json:"city"`
	Province       string  `json:"province,omitempty"`
	Postal         string  `json:"postal,omitempty"`
	Lat            float64 `json:"lat,omitempty"`
	Lng            float64 `json:"lng,omitempty"`
}

// Service is a bookable offering embedded in a company. Services are
// addressed by their id for edit and delete.
type Service struct {
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

// Like marks that a user liked a company. A user id appears at most once in
// a company's like list; the handlers enforce that, not the store.
type Like struct {
	UserID string `json:"user"`
}

// Review is a user review embedded in a company.
type Review struct {
	ID     string    `json:"id"`
	UserID string    `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name,omitempty"`
	Avatar string    `json:"avatar,omitempty"`
	Date   time.Time `json:"date"`
}

// Company is a business owned by exactly one user.
type Company struct {
	ID          string      `json:"id" db:"id"`
	UserID      string      `json:"user_id" db:"user_id"`
	Name        string      `json:"name" db:"name"`
	Avatar      string      `json:"avatar,omitempty" db:"avatar"`
	Website     string      `json:"website,omitempty" db:"website"`
	Description string      `json:"description,omitempty" db:"description"`
	Phone       string      `json:"phone" db:"phone"`
	Email       string      `json:"email" db:"email"`
	Fax         string      `json:"fax,omitempty" db:"fax"`
	Likes       []Like      `json:"likes" db:"-"`
	Geolocation GeoPoint    `json:"geolocation" db:"-"`
	Address     Address     `json:"location" db:"-"`
	IsAdmin     bool        `json:"is_admin" db:"is_admin"`
	Services    []Service   `json:"services" db:"-"`
	Social      Social      `json:"social" db:"-"`
	StoreHours  StoreHours  `json:"store_hours" db:"-"`
	Reviews     []Review    `json:"reviews" db:"-"`
	CreatedAt   time.Time   `json:"date_created" db:"created_at"`
	Owner       *PublicUser `json:"user,omitempty" db:"-"`

	// DistanceMeters is set only on proximity search results.
	DistanceMeters *float64 `json:"distance_meters,omitempty" db:"-"`
}

// ServiceIndex returns the position of the service with the given id, or -1.
func (c *Company) ServiceIndex(serviceID string) int {
	for i, s := range c.Services {
		if s.ID == serviceID {
			return i
		}
	}
	return -1
}

// AddService prepends a service to the company's list.
func (c *Company) AddService(s Service) {
	c.Services = append([]Service{s}, c.Services...)
}

// ReplaceService overwrites the whole entry matching the given id. The
// submitted service wins entirely; this is not a merge.
func (c *Company) ReplaceService(serviceID string, s Service) bool {
	i := c.ServiceIndex(serviceID)
	if i < 0 {
		return false
	}
	s.ID = serviceID
	c.Services[i] = s
	return true
}

// RemoveService splices out the entry matching the given id.
func (c *Company) RemoveService(serviceID string) bool {
	i := c.ServiceIndex(serviceID)
	if i < 0 {
		return false
	}
	c.Services = append(c.Services[:i], c.Services[i+1:]...)
	return true
}

// LikedBy reports whether the given user already likes the company.
func (c *Company) LikedBy(userID string) bool {
	for _, l := range c.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// AddLike records a like. Returns false without modifying the list when the
// user already likes the company.
func (c *Company) AddLike(userID string) bool {
	if c.LikedBy(userID) {
		return false
	}
	c.Likes = append([]Like{{UserID: userID}}, c.Likes...)
	return true
}

// RemoveLike withdraws a like. Returns false when the user had not liked the
// company; the list is left unchanged.
func (c *Company) RemoveLike(userID string) bool {
	for i, l := range c.Likes {
		if l.UserID == userID {
			c.Likes = append(c.Likes[:i], c.Likes[i+1:]...)
			return true
		}
	}
	return false
}
