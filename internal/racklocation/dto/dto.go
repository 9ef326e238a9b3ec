package dto

type RackLocationFilters struct {
	Search   string // name or description, case insensitive
	Page     int
	PageSize int
}
