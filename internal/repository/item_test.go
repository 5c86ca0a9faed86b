package repository

import (
	"testing"
	"time"

	"github.com/campusfind/campusfind/internal/db"
	"github.com/campusfind/campusfind/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, database *sqlx.DB, name, email string) *model.User {
	t.Helper()

	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Phone:        "+923001234567",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, NewUserRepository(database).Create(user))
	return user
}

func insertItem(t *testing.T, repo ItemRepository, owner *model.User, title, description string, createdAt time.Time) *model.Item {
	t.Helper()

	item := &model.Item{
		ID:           uuid.New().String(),
		Title:        title,
		Description:  description,
		Category:     "Accessories",
		Location:     "Main Library",
		ItemType:     model.ItemTypeLost,
		Status:       model.ItemStatusActive,
		ReportedByID: owner.ID,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	require.NoError(t, repo.Create(item))
	return item
}

func TestSearchNoFiltersNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	repo := NewItemRepository(database)
	owner := createTestUser(t, database, "Ali", "ali@nu.edu.pk")

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	insertItem(t, repo, owner, "First", "oldest", base)
	insertItem(t, repo, owner, "Second", "middle", base.Add(time.Hour))
	insertItem(t, repo, owner, "Third", "newest", base.Add(2*time.Hour))

	items, err := repo.Search(ItemFilter{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "Third", items[0].Title)
	require.Equal(t, "Second", items[1].Title)
	require.Equal(t, "First", items[2].Title)
}

func TestSearchKeywordMatchesTitleOrDescription(t *testing.T) {
	database := db.NewTestDB(t)
	repo := NewItemRepository(database)
	owner := createTestUser(t, database, "Ali", "ali@nu.edu.pk")

	now := time.Now().UTC()
	insertItem(t, repo, owner, "Wallet found near library", "brown leather", now)
	insertItem(t, repo, owner, "Lost backpack", "blue, contained a wallet", now.Add(time.Second))
	insertItem(t, repo, owner, "Lost keys", "set of hostel keys", now.Add(2*time.Second))

	items, err := repo.Search(ItemFilter{Keyword: "WALLET"})
	require.NoError(t, err)
	require.Len(t, items, 2)

	items, err = repo.Search(ItemFilter{Keyword: "backpack"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Lost backpack", items[0].Title)
}

func TestSearchLocationSubstring(t *testing.T) {
	database := db.NewTestDB(t)
	repo := NewItemRepository(database)
	owner := createTestUser(t, database, "Ali", "ali@nu.edu.pk")

	now := time.Now().UTC()
	item := insertItem(t, repo, owner, "Lost card", "student card", now)
	item.Location = "CS Department, Block B"

	require.NoError(t, repo.Update(item))

	items, err := repo.Search(ItemFilter{Location: "block b"})
	require.NoError(t, err)
	require.Len(t, items, 1)

	items, err = repo.Search(ItemFilter{Location: "cafeteria"})
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestSearchDateRange(t *testing.T) {
	database := db.NewTestDB(t)
	repo := NewItemRepository(database)
	owner := createTestUser(t, database, "Ali", "ali@nu.edu.pk")

	during := time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC)
	after := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	insertItem(t, repo, owner, "During", "", during)
	insertItem(t, repo, owner, "After", "", after)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	items, err := repo.Search(ItemFilter{CreatedFrom: &from, CreatedBefore: &before})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "During", items[0].Title)
}

func TestSearchCombinedFilters(t *testing.T) {
	database := db.NewTestDB(t)
	repo := NewItemRepository(database)
	owner := createTestUser(t, database, "Ali", "ali@nu.edu.pk")
	other := createTestUser(t, database, "Sara", "sara@nu.edu.pk")

	now := time.Now().UTC()
	lost := insertItem(t, repo, owner, "Lost phone", "black phone", now)

	found := insertItem(t, repo, other, "Found phone", "white phone", now.Add(time.Second))
	found.ItemType = model.ItemTypeFound
	found.Status = model.ItemStatusRecovered
	require.NoError(t, repo.Update(found))

	items, err := repo.Search(ItemFilter{ItemType: model.ItemTypeLost})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, lost.ID, items[0].ID)

	items, err = repo.Search(ItemFilter{Keyword: "phone", Status: model.ItemStatusRecovered})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, found.ID, items[0].ID)

	items, err = repo.Search(ItemFilter{ReportedBy: other.ID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, found.ID, items[0].ID)
}

func TestSearchSortWhitelist(t *testing.T) {
	database := db.NewTestDB(t)
	repo := NewItemRepository(database)
	owner := createTestUser(t, database, "Ali", "ali@nu.edu.pk")

	now := time.Now().UTC()
	insertItem(t, repo, owner, "banana stand keys", "", now)
	insertItem(t, repo, owner, "Airpods case", "", now.Add(time.Second))

	items, err := repo.Search(ItemFilter{SortBy: ItemSortTitle, SortOrder: SortAsc})
	require.NoError(t, err)
	require.Equal(t, "Airpods case", items[0].Title)

	// Unknown sort fields fall back to created_at descending
	items, err = repo.Search(ItemFilter{SortBy: "evil; DROP TABLE items", SortOrder: "sideways"})
	require.NoError(t, err)
	require.Equal(t, "Airpods case", items[0].Title)
}

func TestByIDResolvesReporter(t *testing.T) {
	database := db.NewTestDB(t)
	repo := NewItemRepository(database)
	owner := createTestUser(t, database, "Ali Khan", "ali@nu.edu.pk")

	item := insertItem(t, repo, owner, "Lost jacket", "grey hoodie", time.Now().UTC())

	got, err := repo.ByID(item.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Reporter)
	require.Equal(t, "Ali Khan", got.Reporter.Name)
	require.Equal(t, "ali@nu.edu.pk", got.Reporter.Email)
	require.Equal(t, "+923001234567", got.Reporter.Phone)
}

func TestByIDNotFound(t *testing.T) {
	database := db.NewTestDB(t)
	repo := NewItemRepository(database)

	_, err := repo.ByID("missing")
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestUpdateMissingItem(t *testing.T) {
	database := db.NewTestDB(t)
	repo := NewItemRepository(database)

	item := &model.Item{ID: "missing", UpdatedAt: time.Now().UTC()}
	require.ErrorIs(t, repo.Update(item), ErrItemNotFound)
}

func TestDelete(t *testing.T) {
	database := db.NewTestDB(t)
	repo := NewItemRepository(database)
	owner := createTestUser(t, database, "Ali", "ali@nu.edu.pk")

	item := insertItem(t, repo, owner, "Lost charger", "", time.Now().UTC())

	require.NoError(t, repo.Delete(item.ID))
	_, err := repo.ByID(item.ID)
	require.ErrorIs(t, err, ErrItemNotFound)

	require.ErrorIs(t, repo.Delete(item.ID), ErrItemNotFound)
}
