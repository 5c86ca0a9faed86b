package model

import (
	"time"
)

const (
	ItemTypeLost  = "lost"
	ItemTypeFound = "found"
)

const (
	ItemStatusActive    = "active"
	ItemStatusRecovered = "recovered"
	ItemStatusReturned  = "returned"
)

// ValidItemType reports whether t is a recognized report type.
func ValidItemType(t string) bool {
	return t == ItemTypeLost || t == ItemTypeFound
}

// ValidItemStatus reports whether s is a recognized report status.
func ValidItemStatus(s string) bool {
	return s == ItemStatusActive || s == ItemStatusRecovered || s == ItemStatusReturned
}

// Item is a single lost/found report. Contact fields are a snapshot taken
// at report time and do not track later profile edits; Reporter carries the
// live user data joined in by the repository.
type Item struct {
	ID          string `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Category    string `db:"category" json:"category"`
	Location    string `db:"location" json:"location"`
	ItemType    string `db:"item_type" json:"itemType"`
	Status      string `db:"status" json:"status"`

	ImageURL    *string `db:"image_url" json:"imageUrl,omitempty"`
	ImageHandle *string `db:"image_handle" json:"-"`

	ContactName   *string `db:"contact_name" json:"contactName,omitempty"`
	ContactEmail  *string `db:"contact_email" json:"contactEmail,omitempty"`
	ContactMobile *string `db:"contact_mobile" json:"contactMobile,omitempty"`

	ReportedByID string    `db:"reported_by" json:"reportedById"`
	Reporter     *Reporter `db:"-" json:"reportedBy,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Reporter is the public contact view of the user who filed a report.
type Reporter struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (i *Item) HasImage() bool {
	return i.ImageHandle != nil && *i.ImageHandle != ""
}
