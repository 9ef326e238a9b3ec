package dto

type CreateCategoryInput struct {
	Name        string
	Description string
}

type UpdateCategoryInput struct {
	ID          string
	Name        *string // nil keeps the current value
	Description *string
}
