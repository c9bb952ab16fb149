package store

// Pagination defaults applied by ListParams.Normalize.
const (
	DefaultPage  = 1
	DefaultLimit = 10

	// DefaultSortField is used whenever the requested sort field is not in
	// the allow-list. Unknown fields fall back silently rather than erroring.
	DefaultSortField = "createdAt"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// taskSortFields is the closed allow-list of sortable task fields,
// expressed in their API (JSON) names.
var taskSortFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"priority":  true,
}

// ListParams carries the query-shaping inputs for paginated listings:
// page/limit, an optional case-insensitive title substring filter, exact
// filters on status and priority, and a sort field with direction.
type ListParams struct {
	Page     int
	Limit    int
	SortBy   string
	Order    string
	Title    string
	Status   string
	Priority string
}

// Normalize returns a copy of the params with defaults applied: page >= 1,
// limit >= 1 (default 10), sort field restricted to the allow-list and
// order coerced to asc unless explicitly desc.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if !taskSortFields[p.SortBy] {
		p.SortBy = DefaultSortField
	}
	if p.Order != OrderDesc {
		p.Order = OrderAsc
	}
	return p
}

// Offset returns the number of rows to skip for the requested page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination describes one page of a listing result.
type Pagination struct {
	TotalItems int `json:"totalItems"`
	Page       int `json:"page"`
	Pages      int `json:"pages"`
	Limit      int `json:"limit"`
}

// NewPagination computes pagination metadata for the given totals.
// Pages is ceil(totalItems/limit); zero items yields zero pages.
func NewPagination(totalItems, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (totalItems + limit - 1) / limit
	}
	return Pagination{
		TotalItems: totalItems,
		Page:       page,
		Pages:      pages,
		Limit:      limit,
	}
}
