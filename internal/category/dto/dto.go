package dto

type CategoryFilters struct {
	Search   string // name or description, case insensitive
	Page     int
	PageSize int
}
