package filters

import (
	"errors"
	"math"
	"strings"
)

const (
	AscSort  = "ASC"
	DescSort = "DESC"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 50
	// MaxPage keeps (page-1)*MaxPageSize within int.
	MaxPage = math.MaxInt/MaxPageSize + 1
)

type Filters struct {
	Page         int
	PageSize     int
	Sort         string
	SortSafelist []string
}

// New clamps page and page size into their allowed ranges instead of
// rejecting them: page < 1 becomes 1 and page is capped at MaxPage. Page
// size falls back to the default when unset and is capped at MaxPageSize.
func New(page, pageSize int, sort, defaultSort string, safelist []string) Filters {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if sort == "" {
		sort = defaultSort
	}
	return Filters{Page: page, PageSize: pageSize, Sort: sort, SortSafelist: safelist}
}

func (f *Filters) SortColumn() string {
	s := strings.TrimPrefix(f.Sort, "-")
	for _, safeValue := range f.SortSafelist {
		if strings.EqualFold(s, safeValue) {
			return safeValue
		}
	}
	panic(errors.New("Unknown sort column: " + f.Sort))
}

func (f *Filters) SortDirection() string {
	if strings.HasPrefix(f.Sort, "-") {
		return DescSort
	}
	return AscSort
}

func (f *Filters) Limit() int {
	return f.PageSize
}

func (f *Filters) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// MovieFilter narrows a movie listing.
type MovieFilter struct {
	Title      string // case-insensitive substring of the title
	Genre      string // case-insensitive genre match
	PublicOnly bool
}

type Metadata struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func CalculateMetadata(total int, f Filters) Metadata {
	return Metadata{
		Page:  f.Page,
		Limit: f.PageSize,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(f.PageSize))),
	}
}
