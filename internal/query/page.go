package query

import (
	"math"

	"example.com/taskhub/internal/domain"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Page is a 1-based page request. Values below 1 are invalid input, never
// clamped.
type Page struct {
	Number int
	Limit  int
}

func DefaultPageSpec() Page {
	return Page{Number: DefaultPage, Limit: DefaultLimit}
}

func (p Page) Validate() error {
	v := &domain.ValidationError{}
	if p.Number < 1 {
		v.Add("page", "must be at least 1")
	}
	if p.Limit < 1 {
		v.Add("limit", "must be at least 1")
	}
	if v.Empty() {
		return nil
	}
	return v
}

// offset saturates instead of overflowing: Validate puts no upper bound
// on page or limit, so extreme values must land past the end rather than
// wrap negative.
func (p Page) offset() int {
	if p.Number-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Limit
}

// PageRef points at a neighbouring page in the response envelope.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Meta describes the window that was cut out of the filtered set.
type Meta struct {
	Total   int
	Count   int
	HasNext bool
	HasPrev bool
	Next    *PageRef
	Prev    *PageRef
}

// Window slices the ordered, filtered sequence. Total always reflects the
// filtered set before windowing; an offset past the end yields an empty
// page, not an error.
func (p Page) Window(tasks []domain.Task) ([]domain.Task, Meta) {
	total := len(tasks)
	offset := p.offset()

	items := []domain.Task{}
	if offset < total {
		end := total
		if p.Limit < total-offset {
			end = offset + p.Limit
		}
		items = tasks[offset:end]
	}

	meta := Meta{
		Total:   total,
		Count:   len(items),
		HasNext: p.Limit < total-offset,
		HasPrev: offset > 0,
	}
	if meta.HasNext {
		meta.Next = &PageRef{Page: p.Number + 1, Limit: p.Limit}
	}
	if meta.HasPrev {
		meta.Prev = &PageRef{Page: p.Number - 1, Limit: p.Limit}
	}
	return items, meta
}
