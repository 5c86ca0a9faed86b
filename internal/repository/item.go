package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campusfind/campusfind/internal/model"
	"github.com/jmoiron/sqlx"
)

const (
	ItemSortCreatedAt = "createdAt"
	ItemSortTitle     = "title"
	ItemSortCategory  = "category"
	ItemSortLocation  = "location"

	SortAsc  = "asc"
	SortDesc = "desc"
)

var (
	ErrItemNotFound = errors.New("item not found")
)

// ItemFilter narrows an item search. Zero-value fields are ignored, so the
// empty filter yields the full listing.
type ItemFilter struct {
	Keyword    string // case-insensitive substring on title or description
	Category   string // exact match
	Location   string // case-insensitive substring
	ItemType   string // exact match
	Status     string // exact match
	ReportedBy string // exact match on the owning user id

	CreatedFrom   *time.Time // inclusive lower bound on created_at
	CreatedBefore *time.Time // exclusive upper bound on created_at

	SortBy    string // one of the ItemSort* constants, default createdAt
	SortOrder string // SortAsc or SortDesc, default SortDesc
}

type ItemRepository interface {
	Create(item *model.Item) error
	ByID(id string) (*model.Item, error)
	Search(filter ItemFilter) ([]*model.Item, error)
	Update(item *model.Item) error
	Delete(id string) error
}

type itemRepository struct {
	db *sqlx.DB
}

func NewItemRepository(db *sqlx.DB) ItemRepository {
	return &itemRepository{db: db}
}

// itemRow carries an item plus the reporter columns joined from users.
type itemRow struct {
	model.Item
	ReporterName  string `db:"reporter_name"`
	ReporterEmail string `db:"reporter_email"`
	ReporterPhone string `db:"reporter_phone"`
}

const itemSelect = `SELECT i.*,
	       u.name AS reporter_name,
	       u.email AS reporter_email,
	       u.phone AS reporter_phone
	FROM items i
	JOIN users u ON u.id = i.reported_by`

func (row *itemRow) item() *model.Item {
	item := row.Item
	item.Reporter = &model.Reporter{
		Name:  row.ReporterName,
		Email: row.ReporterEmail,
		Phone: row.ReporterPhone,
	}
	return &item
}

func (r *itemRepository) Create(item *model.Item) error {
	query := `INSERT INTO items (id, title, description, category, location, item_type, status,
	                             image_url, image_handle, contact_name, contact_email, contact_mobile,
	                             reported_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(query,
		item.ID,
		item.Title,
		item.Description,
		item.Category,
		item.Location,
		item.ItemType,
		item.Status,
		item.ImageURL,
		item.ImageHandle,
		item.ContactName,
		item.ContactEmail,
		item.ContactMobile,
		item.ReportedByID,
		item.CreatedAt,
		item.UpdatedAt,
	)

	return err
}

func (r *itemRepository) ByID(id string) (*model.Item, error) {
	row := &itemRow{}
	query := itemSelect + ` WHERE i.id = $1`

	err := r.db.Get(row, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	return row.item(), nil
}

func (r *itemRepository) Search(filter ItemFilter) ([]*model.Item, error) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Keyword != "" {
		p := "%" + strings.ToLower(filter.Keyword) + "%"
		conds = append(conds, fmt.Sprintf("(LOWER(i.title) LIKE %s OR LOWER(i.description) LIKE %s)", arg(p), arg(p)))
	}
	if filter.Category != "" {
		conds = append(conds, "i.category = "+arg(filter.Category))
	}
	if filter.Location != "" {
		p := "%" + strings.ToLower(filter.Location) + "%"
		conds = append(conds, "LOWER(i.location) LIKE "+arg(p))
	}
	if filter.ItemType != "" {
		conds = append(conds, "i.item_type = "+arg(filter.ItemType))
	}
	if filter.Status != "" {
		conds = append(conds, "i.status = "+arg(filter.Status))
	}
	if filter.ReportedBy != "" {
		conds = append(conds, "i.reported_by = "+arg(filter.ReportedBy))
	}
	if filter.CreatedFrom != nil {
		conds = append(conds, "i.created_at >= "+arg(*filter.CreatedFrom))
	}
	if filter.CreatedBefore != nil {
		conds = append(conds, "i.created_at < "+arg(*filter.CreatedBefore))
	}

	query := itemSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " " + orderClause(filter.SortBy, filter.SortOrder)

	var rows []itemRow
	err := r.db.Select(&rows, query, args...)
	if err != nil {
		return nil, err
	}

	items := make([]*model.Item, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].item())
	}

	return items, nil
}

// orderClause validates the sort parameters against a column whitelist.
// Unknown fields fall back to created_at, unknown orders to descending.
func orderClause(sortBy, sortOrder string) string {
	var column string
	switch sortBy {
	case ItemSortTitle:
		column = "LOWER(i.title)"
	case ItemSortCategory:
		column = "LOWER(i.category)"
	case ItemSortLocation:
		column = "LOWER(i.location)"
	default: // ItemSortCreatedAt or empty
		column = "i.created_at"
	}

	direction := "DESC"
	if sortOrder == SortAsc {
		direction = "ASC"
	}

	return "ORDER BY " + column + " " + direction
}

func (r *itemRepository) Update(item *model.Item) error {
	query := `UPDATE items
	          SET title = $1, description = $2, category = $3, location = $4, item_type = $5,
	              status = $6, image_url = $7, image_handle = $8,
	              contact_name = $9, contact_email = $10, contact_mobile = $11, updated_at = $12
	          WHERE id = $13`

	result, err := r.db.Exec(query,
		item.Title,
		item.Description,
		item.Category,
		item.Location,
		item.ItemType,
		item.Status,
		item.ImageURL,
		item.ImageHandle,
		item.ContactName,
		item.ContactEmail,
		item.ContactMobile,
		item.UpdatedAt,
		item.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *itemRepository) Delete(id string) error {
	query := `DELETE FROM items WHERE id = $1`
	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrItemNotFound
	}

	return nil
}
