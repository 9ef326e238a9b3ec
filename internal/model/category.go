package model

type Category struct {
	BaseModel
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
}

// RackLocation is a named shelf position a product can be stored at.
type RackLocation struct {
	BaseModel
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
}
