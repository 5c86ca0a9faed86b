package service

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/campusfind/campusfind/internal/model"
	"github.com/campusfind/campusfind/internal/repository"
	"github.com/campusfind/campusfind/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrMissingFields   = errors.New("title, description, category and location are required")
	ErrInvalidItemType = errors.New("item type must be 'lost' or 'found'")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrNotOwner        = errors.New("not authorized to modify this item")
)

type ItemService struct {
	repo     repository.ItemRepository
	userRepo repository.UserRepository
	storage  storage.Storage
}

func NewItemService(repo repository.ItemRepository, userRepo repository.UserRepository, storage storage.Storage) *ItemService {
	return &ItemService{
		repo:     repo,
		userRepo: userRepo,
		storage:  storage,
	}
}

// SearchParams are the raw, optional query parameters of a listing search.
// Empty strings are ignored entirely; they never mean "match empty".
type SearchParams struct {
	Keyword  string
	Category string
	Location string
	ItemType string
	Status   string
	DateFrom string
	DateTo   string

	SortBy    string
	SortOrder string
}

// Search runs the listing query. The plain listing is Search with zero
// params: everything, newest first. Malformed date bounds are dropped
// rather than rejected, so a bad filter degrades to a broader result.
func (s *ItemService) Search(params SearchParams) ([]*model.Item, error) {
	filter := repository.ItemFilter{
		Keyword:   strings.TrimSpace(params.Keyword),
		Category:  strings.TrimSpace(params.Category),
		Location:  strings.TrimSpace(params.Location),
		ItemType:  params.ItemType,
		Status:    params.Status,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
	}

	if t, ok := parseDate(params.DateFrom); ok {
		filter.CreatedFrom = &t
	}
	if t, dateOnly, ok := parseDateBound(params.DateTo); ok {
		if dateOnly {
			// "to end of that day": exclusive start of the next day
			t = t.AddDate(0, 0, 1)
		} else {
			// keep the bound itself inclusive
			t = t.Add(time.Nanosecond)
		}
		filter.CreatedBefore = &t
	}

	return s.repo.Search(filter)
}

// Mine returns the caller's own reports, newest first.
func (s *ItemService) Mine(userID string) ([]*model.Item, error) {
	return s.repo.Search(repository.ItemFilter{ReportedBy: userID})
}

func (s *ItemService) ByID(id string) (*model.Item, error) {
	return s.repo.ByID(id)
}

func parseDate(value string) (time.Time, bool) {
	t, _, ok := parseDateBound(value)
	return t, ok
}

// parseDateBound accepts a calendar date or an RFC 3339 timestamp. Anything
// else reports ok=false and the caller skips the bound (permissive parsing).
func parseDateBound(value string) (t time.Time, dateOnly, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false, false
	}

	t, err := time.Parse("2006-01-02", value)
	if err == nil {
		return t, true, true
	}

	t, err = time.Parse(time.RFC3339, value)
	if err == nil {
		return t, false, true
	}

	return time.Time{}, false, false
}

// CreateItemInput holds the fields of a new report.
type CreateItemInput struct {
	Title       string
	Description string
	Category    string
	Location    string
	ItemType    string

	ContactName   string
	ContactEmail  string
	ContactMobile string
}

// Create files a new report for ownerID. Blank contact fields are filled
// from the reporter's account, snapshotted onto the item so later profile
// edits do not rewrite old reports. A supplied image is uploaded before
// anything is persisted: if the upload fails no item is saved.
func (s *ItemService) Create(ownerID string, input CreateItemInput, image multipart.File, header *multipart.FileHeader) (*model.Item, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)
	input.Location = strings.TrimSpace(input.Location)

	if input.Title == "" || input.Description == "" || input.Category == "" || input.Location == "" {
		return nil, ErrMissingFields
	}
	if !model.ValidItemType(input.ItemType) {
		return nil, ErrInvalidItemType
	}

	owner, err := s.userRepo.ByID(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reporter: %w", err)
	}

	// Contact snapshot: explicit values win, reporter's account fills gaps
	if input.ContactName == "" {
		input.ContactName = owner.Name
	}
	if input.ContactEmail == "" {
		input.ContactEmail = owner.Email
	}
	if input.ContactMobile == "" {
		input.ContactMobile = owner.Phone
	}

	now := time.Now().UTC()
	item := &model.Item{
		ID:            uuid.New().String(),
		Title:         input.Title,
		Description:   input.Description,
		Category:      input.Category,
		Location:      input.Location,
		ItemType:      input.ItemType,
		Status:        model.ItemStatusActive,
		ContactName:   &input.ContactName,
		ContactEmail:  &input.ContactEmail,
		ContactMobile: &input.ContactMobile,
		ReportedByID:  ownerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if image != nil {
		url, handle, err := uploadImage(s.storage, "item-images/"+ownerID, image, header)
		if err != nil {
			return nil, err
		}
		item.ImageURL = &url
		item.ImageHandle = &handle
	}

	err = s.repo.Create(item)
	if err != nil {
		// If the insert fails, try to clean up the uploaded image
		if item.HasImage() {
			delErr := s.storage.Delete(*item.ImageHandle)
			if delErr != nil {
				slog.Error("failed to delete image during cleanup", "error", delErr, "handle", *item.ImageHandle)
			}
		}
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return s.repo.ByID(item.ID)
}

// UpdateItemInput holds the optional fields of a report edit. Nil pointers
// mean the field was not part of the request; present-but-empty text fields
// are ignored, present contact fields overwrite (including clearing).
type UpdateItemInput struct {
	Title       *string
	Description *string
	Category    *string
	Location    *string
	ItemType    *string

	ContactName   *string
	ContactEmail  *string
	ContactMobile *string
}

// Update edits a report. Only the owner may edit. When a new image is
// supplied it is uploaded first and the previous handle deleted after,
// never the other way round: a failed upload leaves the old image intact.
func (s *ItemService) Update(itemID, callerID string, input UpdateItemInput, image multipart.File, header *multipart.FileHeader) (*model.Item, error) {
	item, err := s.repo.ByID(itemID)
	if err != nil {
		return nil, err
	}

	if item.ReportedByID != callerID {
		return nil, ErrNotOwner
	}

	if input.ItemType != nil && *input.ItemType != "" && !model.ValidItemType(*input.ItemType) {
		return nil, ErrInvalidItemType
	}

	if image != nil {
		url, handle, err := uploadImage(s.storage, "item-images/"+callerID, image, header)
		if err != nil {
			return nil, err
		}

		if item.HasImage() {
			delErr := s.storage.Delete(*item.ImageHandle)
			if delErr != nil {
				slog.Warn("failed to delete replaced image", "error", delErr, "handle", *item.ImageHandle)
			}
		}

		item.ImageURL = &url
		item.ImageHandle = &handle
	}

	setText := func(dst *string, src *string) {
		if src != nil && strings.TrimSpace(*src) != "" {
			*dst = strings.TrimSpace(*src)
		}
	}
	setText(&item.Title, input.Title)
	setText(&item.Description, input.Description)
	setText(&item.Category, input.Category)
	setText(&item.Location, input.Location)
	if input.ItemType != nil && *input.ItemType != "" {
		item.ItemType = *input.ItemType
	}

	if input.ContactName != nil {
		item.ContactName = input.ContactName
	}
	if input.ContactEmail != nil {
		item.ContactEmail = input.ContactEmail
	}
	if input.ContactMobile != nil {
		item.ContactMobile = input.ContactMobile
	}

	item.UpdatedAt = time.Now().UTC()

	err = s.repo.Update(item)
	if err != nil {
		return nil, err
	}

	return s.repo.ByID(itemID)
}

// SetStatus changes a report's status. Any recognized value is accepted
// from any current status; transitions are not restricted.
func (s *ItemService) SetStatus(itemID, callerID, status string) (*model.Item, error) {
	if !model.ValidItemStatus(status) {
		return nil, ErrInvalidStatus
	}

	item, err := s.repo.ByID(itemID)
	if err != nil {
		return nil, err
	}

	if item.ReportedByID != callerID {
		return nil, ErrNotOwner
	}

	item.Status = status
	item.UpdatedAt = time.Now().UTC()

	err = s.repo.Update(item)
	if err != nil {
		return nil, err
	}

	return s.repo.ByID(itemID)
}

// Delete removes a report. Only the owner may delete. Media deletion is
// best effort: a media store failure is logged but never blocks removing
// the record.
func (s *ItemService) Delete(itemID, callerID string) error {
	item, err := s.repo.ByID(itemID)
	if err != nil {
		return err
	}

	if item.ReportedByID != callerID {
		return ErrNotOwner
	}

	if item.HasImage() {
		delErr := s.storage.Delete(*item.ImageHandle)
		if delErr != nil {
			slog.Warn("failed to delete item image", "error", delErr, "handle", *item.ImageHandle)
		}
	}

	return s.repo.Delete(itemID)
}
