package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/campusfind/campusfind/internal/ctxkeys"
	"github.com/campusfind/campusfind/internal/model"
	"github.com/campusfind/campusfind/internal/repository"
	"github.com/campusfind/campusfind/internal/service"
	"github.com/campusfind/campusfind/internal/validation"
)

type ItemHandler struct {
	itemService   *service.ItemService
	maxUploadSize int64
}

func NewItemHandler(itemService *service.ItemService, maxUploadSize int64) *ItemHandler {
	return &ItemHandler{
		itemService:   itemService,
		maxUploadSize: maxUploadSize,
	}
}

// Search handles GET /api/items. With no parameters it is the plain
// listing: every item, newest first.
func (h *ItemHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := service.SearchParams{
		Keyword:   firstOf(q.Get("keyword"), q.Get("q")),
		Category:  q.Get("category"),
		Location:  q.Get("location"),
		ItemType:  q.Get("itemType"),
		Status:    q.Get("status"),
		DateFrom:  firstOf(q.Get("dateFrom"), q.Get("startDate")),
		DateTo:    firstOf(q.Get("dateTo"), q.Get("endDate")),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	// Legacy sort values predate the sortBy/sortOrder pair
	switch q.Get("sort") {
	case "date_asc":
		params.SortBy, params.SortOrder = repository.ItemSortCreatedAt, repository.SortAsc
	case "date_desc":
		params.SortBy, params.SortOrder = repository.ItemSortCreatedAt, repository.SortDesc
	}

	items, err := h.itemService.Search(params)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if items == nil {
		items = []*model.Item{}
	}

	respondJSON(w, http.StatusOK, items)
}

// Mine handles GET /api/items/mine.
func (h *ItemHandler) Mine(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	items, err := h.itemService.Mine(user.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if items == nil {
		items = []*model.Item{}
	}

	respondJSON(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.itemService.ByID(r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// Create handles POST /api/items. Multipart body with an optional
// itemImage file field.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := parseForm(w, r, h.maxUploadSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	image, header, err := itemImage(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if image != nil {
		defer image.Close()
	}

	input := service.CreateItemInput{
		Title:         r.PostFormValue("title"),
		Description:   r.PostFormValue("description"),
		Category:      r.PostFormValue("category"),
		Location:      r.PostFormValue("location"),
		ItemType:      r.PostFormValue("itemType"),
		ContactName:   r.PostFormValue("contactName"),
		ContactEmail:  r.PostFormValue("contactEmail"),
		ContactMobile: r.PostFormValue("contactMobile"),
	}

	item, err := h.itemService.Create(user.ID, input, image, header)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// Update handles PUT /api/items/{id}. Partial update: absent fields keep
// their current values.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := parseForm(w, r, h.maxUploadSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	image, header, err := itemImage(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if image != nil {
		defer image.Close()
	}

	input := service.UpdateItemInput{
		Title:         formValue(r, "title"),
		Description:   formValue(r, "description"),
		Category:      formValue(r, "category"),
		Location:      formValue(r, "location"),
		ItemType:      formValue(r, "itemType"),
		ContactName:   formValue(r, "contactName"),
		ContactEmail:  formValue(r, "contactEmail"),
		ContactMobile: formValue(r, "contactMobile"),
	}

	item, err := h.itemService.Update(r.PathValue("id"), user.ID, input, image, header)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /api/items/{id}/status.
func (h *ItemHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req statusRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.itemService.SetStatus(r.PathValue("id"), user.ID, req.Status)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "status updated",
		"item":    item,
	})
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.itemService.Delete(r.PathValue("id"), user.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// itemImage pulls the optional itemImage file out of a parsed form and
// validates it against the image constraints.
func itemImage(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	file, hdr, err := r.FormFile("itemImage")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, errors.New("invalid image upload")
	}

	err = validation.ValidateFile(hdr, validation.ImageConstraints)
	if err != nil {
		file.Close()
		return nil, nil, err
	}

	return file, hdr, nil
}
