package dto

type ProductFilters struct {
	Search          string // name, sku or category name
	CategoryID      string
	RackLocationID  string
	IncludeArchived bool
	SortBy          string // name, price, stock, created_at
	SortOrder       string // asc, desc
	Page            int
	PageSize        int
}
