package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría. Code se deriva del nombre si viene vacío.
type CreateCategoryRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Code     string `json:"code" validate:"omitempty,max=120"`
	ParentID string `json:"parent_id" validate:"omitempty,uuid"`
}

// UpdateCategoryRequest campos opcionales.
type UpdateCategoryRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=120"`
	Code     *string `json:"code" validate:"omitempty,max=120"`
	ParentID *string `json:"parent_id" validate:"omitempty,uuid"`
	Status   *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent_id,omitempty"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
