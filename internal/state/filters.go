package state

import (
	"sync"

	"notes-client/internal/models"
)

// Filters 决定笔记列表查询的缓存键，分类和标签筛选互斥
type Filters struct {
	mu                 sync.Mutex
	searchQuery        string
	selectedCategoryID *uint
	selectedTagID      *uint
	currentPage        int
}

func NewFilters() *Filters {
	return &Filters{currentPage: 1}
}

func (f *Filters) SetSearchQuery(query string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchQuery = query
	f.currentPage = 1
}

func (f *Filters) SetSelectedCategory(id *uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selectedCategoryID = id
	f.selectedTagID = nil
	f.currentPage = 1
}

func (f *Filters) SetSelectedTag(id *uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selectedTagID = id
	f.selectedCategoryID = nil
	f.currentPage = 1
}

func (f *Filters) SetCurrentPage(page int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if page < 1 {
		page = 1
	}
	f.currentPage = page
}

func (f *Filters) ClearFilters() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchQuery = ""
	f.selectedCategoryID = nil
	f.selectedTagID = nil
	f.currentPage = 1
}

func (f *Filters) SearchQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchQuery
}

func (f *Filters) SelectedCategoryID() *uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selectedCategoryID
}

func (f *Filters) SelectedTagID() *uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selectedTagID
}

func (f *Filters) CurrentPage() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.currentPage
}

// ListParams 把当前筛选状态展开成列表请求参数
func (f *Filters) ListParams(limit int) *models.NoteListRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	return &models.NoteListRequest{
		Page:       f.currentPage,
		Limit:      limit,
		CategoryID: f.selectedCategoryID,
		TagID:      f.selectedTagID,
		Search:     f.searchQuery,
		Sort:       "created_at",
		Order:      "desc",
	}
}
