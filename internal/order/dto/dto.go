package dto

type OrderFilters struct {
	UserID   string // set for non-admin callers
	Status   string
	Page     int
	PageSize int
}
