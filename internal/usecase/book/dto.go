package book

// CreateBookRequest represents the payload for creating a new book.
// TotalCopies is optional and defaults to 1.
type CreateBookRequest struct {
	ActorID     int64  `validate:"required"`
	Title       string `validate:"required"`
	Author      string `validate:"required"`
	Category    string `validate:"required"`
	TotalCopies *int64 `validate:"omitempty,min=1"`
}

// UpdateBookRequest represents the payload for updating an existing book.
// Nil fields retain their prior values.
type UpdateBookRequest struct {
	ID              int64 `validate:"required"`
	ActorID         int64 `validate:"required"`
	Title           *string
	Author          *string
	Category        *string
	TotalCopies     *int64
	AvailableCopies *int64
}

// DeleteBookRequest represents the payload for deleting a book.
type DeleteBookRequest struct {
	ID      int64
	ActorID int64
}

// SearchRequest represents the optional substring filters for a search.
type SearchRequest struct {
	Title    string
	Author   string
	Category string
}
