package book

import "time"

// Book represents a lendable title in the shared library. A book is owned
// by the user that created it; only the owner may edit or delete it, while
// any authenticated user may borrow or return copies.
type Book struct {
	ID              int64     // ID is the unique identifier for the book
	UserID          int64     // UserID is the owning user, immutable after creation
	Title           string    // Title of the book
	Author          string    // Author of the book
	Category        string    // Category is a free-text classification
	TotalCopies     int64     // TotalCopies is the number of owned copies, always >= 1
	AvailableCopies int64     // AvailableCopies is the number of lendable copies right now
	BorrowCount     int64     // BorrowCount counts successful borrows over the book's lifetime
	CreatedAt       time.Time // CreatedAt is when the record was created
	UpdatedAt       time.Time // UpdatedAt is when the record was last modified
}

// OnLoan returns the number of copies currently lent out.
func (b *Book) OnLoan() int64 {
	return b.TotalCopies - b.AvailableCopies
}

// SearchFilter holds the optional substring filters for a book search.
// An empty field is unconstrained; matching is case-insensitive.
type SearchFilter struct {
	Title    string
	Author   string
	Category string
}

// IsEmpty reports whether no filter field is set.
func (f SearchFilter) IsEmpty() bool {
	return f.Title == "" && f.Author == "" && f.Category == ""
}
