package posts

import (
	"fmt"

	"urbandict/models"

	"gorm.io/gorm"
)

// Page is one slice of an ordered post listing. Out-of-range requests clamp
// to the nearest valid page instead of erroring.
type Page struct {
	Posts      []models.Post
	Number     int
	TotalPages int
	TotalCount int64
	PerPage    int
}

func (p *Page) HasPrev() bool { return p.Number > 1 }
func (p *Page) HasNext() bool { return p.Number < p.TotalPages }
func (p *Page) PrevNumber() int {
	if p.HasPrev() {
		return p.Number - 1
	}
	return p.Number
}
func (p *Page) NextNumber() int {
	if p.HasNext() {
		return p.Number + 1
	}
	return p.Number
}

func (s *Service) paginate(query *gorm.DB, page int) (*Page, error) {
	perPage := s.config.Posts.PerPage

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	if totalPages < 1 {
		totalPages = 1
	}
	page = clampPage(page, totalPages)

	var items []models.Post
	err := query.Session(&gorm.Session{}).
		Preload("Author").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	return &Page{
		Posts:      items,
		Number:     page,
		TotalPages: totalPages,
		TotalCount: total,
		PerPage:    perPage,
	}, nil
}

func pageOfSlice(items []models.Post, page, perPage int) *Page {
	total := int64(len(items))
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	if totalPages < 1 {
		totalPages = 1
	}
	page = clampPage(page, totalPages)

	start := (page - 1) * perPage
	if start > len(items) {
		start = len(items)
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}

	return &Page{
		Posts:      items[start:end],
		Number:     page,
		TotalPages: totalPages,
		TotalCount: total,
		PerPage:    perPage,
	}
}

func emptyPage(perPage int) *Page {
	return &Page{
		Posts:      []models.Post{},
		Number:     1,
		TotalPages: 1,
		PerPage:    perPage,
	}
}

func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
