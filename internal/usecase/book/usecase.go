package book

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "library-management-service/internal/domain/book"
	apperrors "library-management-service/pkg/errors"
	"library-management-service/pkg/security"
)

// mostBorrowedLimit caps the most-borrowed report size.
const mostBorrowedLimit = 5

// Repository defines the interface for book data access operations.
// It abstracts the data layer, allowing different implementations
// (plain or cached) to be used interchangeably.
type Repository interface {
	Create(ctx context.Context, b *domain.Book) (int64, error)                        // Create a new book
	GetByID(ctx context.Context, id int64) (*domain.Book, error)                      // Retrieve book by ID
	List(ctx context.Context) ([]domain.Book, error)                                  // List all books, newest first
	ListByOwner(ctx context.Context, userID int64) ([]domain.Book, error)             // List books owned by a user
	Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Book, error)    // Substring search
	MostBorrowed(ctx context.Context, limit int) ([]domain.Book, error)               // Top borrowed books
	Update(ctx context.Context, b *domain.Book) error                                 // Persist mutable fields
	Delete(ctx context.Context, id int64) error                                       // Delete book by ID
	Borrow(ctx context.Context, id int64) (*domain.Book, error)                       // Atomic conditional borrow
	Return(ctx context.Context, id int64) (*domain.Book, error)                       // Atomic conditional return
}

// Usecase implements the business logic for book management: ownership
// checks on mutation and the copy-count invariants around borrowing.
type Usecase struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

// New creates a new instance of Usecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, log: log, validate: validator.New()}
}

// Create validates the request and creates a book owned by the acting
// identity. A new book starts with all copies available and a zero borrow
// count.
func (uc *Usecase) Create(ctx context.Context, in CreateBookRequest) (*domain.Book, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Category = strings.TrimSpace(in.Category)

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("create book validation failed", zap.Error(err))
		return nil, apperrors.NewValidationError("", "All fields are required")
	}

	total := int64(1)
	if in.TotalCopies != nil {
		total = *in.TotalCopies
	}

	b := &domain.Book{
		UserID:          in.ActorID,
		Title:           in.Title,
		Author:          in.Author,
		Category:        in.Category,
		TotalCopies:     total,
		AvailableCopies: total,
		BorrowCount:     0,
	}

	id, err := uc.repo.Create(ctx, b)
	if err != nil {
		uc.log.Error("failed to create book", zap.Error(err))
		return nil, err
	}

	return uc.repo.GetByID(ctx, id)
}

// List returns all books, newest-created-first.
func (uc *Usecase) List(ctx context.Context) ([]domain.Book, error) {
	return uc.repo.List(ctx)
}

// ListOwn returns the books owned by the acting identity.
func (uc *Usecase) ListOwn(ctx context.Context, actorID int64) ([]domain.Book, error) {
	return uc.repo.ListByOwner(ctx, actorID)
}

// Search returns books matching the supplied case-insensitive substring
// filters. An empty filter set returns all books. An empty result is not an
// error.
func (uc *Usecase) Search(ctx context.Context, in SearchRequest) ([]domain.Book, error) {
	filter := domain.SearchFilter{}

	var err error
	if filter.Title, err = security.ValidateFilterTerm(in.Title); err != nil {
		return nil, apperrors.NewValidationError("title", err.Error())
	}
	if filter.Author, err = security.ValidateFilterTerm(in.Author); err != nil {
		return nil, apperrors.NewValidationError("author", err.Error())
	}
	if filter.Category, err = security.ValidateFilterTerm(in.Category); err != nil {
		return nil, apperrors.NewValidationError("category", err.Error())
	}

	return uc.repo.Search(ctx, filter)
}

// MostBorrowed returns up to five books ordered by lifetime borrow count.
func (uc *Usecase) MostBorrowed(ctx context.Context) ([]domain.Book, error) {
	return uc.repo.MostBorrowed(ctx, mostBorrowedLimit)
}

// Update merges the supplied fields over the existing record. The target
// must exist and be owned by the acting identity, and the merged record must
// keep the copy-count invariant: the total may not drop below the copies
// currently on loan, and the available count must stay within the total.
func (uc *Usecase) Update(ctx context.Context, in UpdateBookRequest) (*domain.Book, error) {
	uc.log.Info("updating book", zap.Int64("id", in.ID), zap.Int64("actor", in.ActorID))

	b, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if b.UserID != in.ActorID {
		uc.log.Warn("update rejected, not the owner",
			zap.Int64("id", in.ID), zap.Int64("actor", in.ActorID), zap.Int64("owner", b.UserID))
		return nil, apperrors.NewForbiddenError("You do not own this book")
	}

	onLoan := b.OnLoan()

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title", "Title must not be empty")
		}
		b.Title = title
	}
	if in.Author != nil {
		author := strings.TrimSpace(*in.Author)
		if author == "" {
			return nil, apperrors.NewValidationError("author", "Author must not be empty")
		}
		b.Author = author
	}
	if in.Category != nil {
		category := strings.TrimSpace(*in.Category)
		if category == "" {
			return nil, apperrors.NewValidationError("category", "Category must not be empty")
		}
		b.Category = category
	}

	if in.TotalCopies != nil {
		if *in.TotalCopies < 1 {
			return nil, apperrors.NewValidationError("totalCopies", "Total copies must be at least 1")
		}
		if *in.TotalCopies < onLoan {
			return nil, apperrors.NewValidationError("totalCopies",
				"Cannot reduce total copies below the copies currently borrowed")
		}
		b.TotalCopies = *in.TotalCopies
		// Keep the loan count fixed unless the caller overrides the
		// available count explicitly below.
		b.AvailableCopies = b.TotalCopies - onLoan
	}

	if in.AvailableCopies != nil {
		if *in.AvailableCopies < 0 || *in.AvailableCopies > b.TotalCopies {
			return nil, apperrors.NewValidationError("availableCopies",
				"Available copies must be between 0 and the total copies")
		}
		b.AvailableCopies = *in.AvailableCopies
	}

	if err := uc.repo.Update(ctx, b); err != nil {
		uc.log.Error("failed to update book", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return uc.repo.GetByID(ctx, in.ID)
}

// Delete removes a book. The target must exist and be owned by the acting
// identity. Outstanding loans do not block deletion.
func (uc *Usecase) Delete(ctx context.Context, in DeleteBookRequest) error {
	uc.log.Info("deleting book", zap.Int64("id", in.ID), zap.Int64("actor", in.ActorID))

	b, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return err
	}

	if b.UserID != in.ActorID {
		uc.log.Warn("delete rejected, not the owner",
			zap.Int64("id", in.ID), zap.Int64("actor", in.ActorID), zap.Int64("owner", b.UserID))
		return apperrors.NewForbiddenError("You do not own this book")
	}

	return uc.repo.Delete(ctx, in.ID)
}

// Borrow lends one copy of the book to the acting identity. The library is a
// shared pool: any authenticated user may borrow any book. The decrement is
// atomic with respect to concurrent borrows of the same book.
func (uc *Usecase) Borrow(ctx context.Context, id int64) (*domain.Book, error) {
	uc.log.Info("borrowing book", zap.Int64("id", id))

	b, err := uc.repo.Borrow(ctx, id)
	if err != nil {
		return nil, err
	}

	return b, nil
}

// Return takes back one copy of the book. Returning does not touch the
// borrow count; it is a cumulative historical counter.
func (uc *Usecase) Return(ctx context.Context, id int64) (*domain.Book, error) {
	uc.log.Info("returning book", zap.Int64("id", id))

	b, err := uc.repo.Return(ctx, id)
	if err != nil {
		return nil, err
	}

	return b, nil
}
