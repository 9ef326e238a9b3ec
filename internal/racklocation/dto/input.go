package dto

type CreateRackLocationInput struct {
	Name        string
	Description string
}

type UpdateRackLocationInput struct {
	ID          string
	Name        *string // nil keeps the current value
	Description *string
}
