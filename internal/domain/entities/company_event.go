package entities

import (
	"time"
)

// CompanyEventType identifies what happened to a company.
type CompanyEventType string

const (
	CompanyEventCreated CompanyEventType = "company.created"
	CompanyEventUpdated CompanyEventType = "company.updated"
	CompanyEventDeleted CompanyEventType = "company.deleted"
	CompanyEventLiked   CompanyEventType = "company.liked"
)

// CompanyEvent is published on the event bus whenever a company changes, so
// caches and the search index can react.
type CompanyEvent struct {
	ID        string           `json:"id"`
	Type      CompanyEventType `json:"type"`
	CompanyID string           `json:"company_id"`
	Timestamp time.Time        `json:"timestamp"`
}
