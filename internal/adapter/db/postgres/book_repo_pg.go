package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"library-management-service/internal/domain/book"
	apperrors "library-management-service/pkg/errors"
	"library-management-service/pkg/security"
)

// BookRepoPG implements the book Repository interface using PostgreSQL and GORM.
type BookRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewBookRepoPG creates a new instance of BookRepoPG.
func NewBookRepoPG(db *gorm.DB, log *zap.Logger) *BookRepoPG {
	return &BookRepoPG{db: db, log: log}
}

// BookSchema represents the database schema for the books table.
type BookSchema struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"` // Unique identifier with auto-increment
	UserID          int64     `gorm:"not null;index"`           // Owning user, immutable after creation
	Title           string    `gorm:"not null"`
	Author          string    `gorm:"not null"`
	Category        string    `gorm:"not null"`
	TotalCopies     int64     `gorm:"not null;default:1"`
	AvailableCopies int64     `gorm:"not null;default:1"`
	BorrowCount     int64     `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the table name for the BookSchema model.
func (BookSchema) TableName() string {
	return "books"
}

func (m *BookSchema) toDomain() *book.Book {
	return &book.Book{
		ID:              m.ID,
		UserID:          m.UserID,
		Title:           m.Title,
		Author:          m.Author,
		Category:        m.Category,
		TotalCopies:     m.TotalCopies,
		AvailableCopies: m.AvailableCopies,
		BorrowCount:     m.BorrowCount,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toDomainSlice(models []BookSchema) []book.Book {
	books := make([]book.Book, len(models))
	for i := range models {
		books[i] = *models[i].toDomain()
	}
	return books
}

// Create inserts a new book into the database and returns its ID.
func (r *BookRepoPG) Create(ctx context.Context, b *book.Book) (int64, error) {
	if b == nil {
		return 0, errors.New("book cannot be nil")
	}

	model := BookSchema{
		UserID:          b.UserID,
		Title:           b.Title,
		Author:          b.Author,
		Category:        b.Category,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		BorrowCount:     b.BorrowCount,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create book in db", zap.Error(err), zap.String("title", b.Title))
		return 0, fmt.Errorf("failed to create book: %w", err)
	}

	r.log.Info("book created in db", zap.Int64("id", model.ID), zap.Int64("owner", model.UserID))
	return model.ID, nil
}

// GetByID retrieves a book from the database by its unique ID.
func (r *BookRepoPG) GetByID(ctx context.Context, id int64) (*book.Book, error) {
	var model BookSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("book not found", zap.Int64("id", id))
			return nil, apperrors.NewNotFoundError("book", "Book not found")
		}
		r.log.Error("failed to get book from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return model.toDomain(), nil
}

// List retrieves all books ordered newest-created-first.
func (r *BookRepoPG) List(ctx context.Context) ([]book.Book, error) {
	var models []BookSchema
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&models).Error; err != nil {
		r.log.Error("failed to list books from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	return toDomainSlice(models), nil
}

// ListByOwner retrieves all books owned by the given user, newest first.
func (r *BookRepoPG) ListByOwner(ctx context.Context, userID int64) ([]book.Book, error) {
	var models []BookSchema
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&models).Error; err != nil {
		r.log.Error("failed to list books by owner from db", zap.Error(err), zap.Int64("owner", userID))
		return nil, fmt.Errorf("failed to list books by owner: %w", err)
	}

	return toDomainSlice(models), nil
}

// Search retrieves books matching the filter. Each supplied field matches as
// a case-insensitive substring; an absent field is unconstrained. With no
// filters the result equals List.
func (r *BookRepoPG) Search(ctx context.Context, filter book.SearchFilter) ([]book.Book, error) {
	tx := r.db.WithContext(ctx).Model(&BookSchema{})

	if filter.Title != "" {
		tx = tx.Where("LOWER(title) LIKE ? ESCAPE '\\'", likePattern(filter.Title))
	}
	if filter.Author != "" {
		tx = tx.Where("LOWER(author) LIKE ? ESCAPE '\\'", likePattern(filter.Author))
	}
	if filter.Category != "" {
		tx = tx.Where("LOWER(category) LIKE ? ESCAPE '\\'", likePattern(filter.Category))
	}

	var models []BookSchema
	if err := tx.Order("created_at DESC, id DESC").Find(&models).Error; err != nil {
		r.log.Error("failed to search books in db", zap.Error(err))
		return nil, fmt.Errorf("failed to search books: %w", err)
	}

	return toDomainSlice(models), nil
}

// likePattern builds a case-insensitive substring pattern with SQL wildcards
// in the user-supplied term escaped.
func likePattern(term string) string {
	return "%" + security.EscapeLike(strings.ToLower(term)) + "%"
}

// MostBorrowed retrieves up to limit books ordered by borrow count
// descending, with the ID as a secondary key so equal counts order
// deterministically.
func (r *BookRepoPG) MostBorrowed(ctx context.Context, limit int) ([]book.Book, error) {
	var models []BookSchema
	if err := r.db.WithContext(ctx).
		Order("borrow_count DESC, id DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		r.log.Error("failed to get most borrowed books from db", zap.Error(err))
		return nil, fmt.Errorf("failed to get most borrowed books: %w", err)
	}

	return toDomainSlice(models), nil
}

// Update persists the mutable fields of an existing book.
func (r *BookRepoPG) Update(ctx context.Context, b *book.Book) error {
	if b == nil {
		return errors.New("book cannot be nil")
	}

	res := r.db.WithContext(ctx).Model(&BookSchema{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"title":            b.Title,
			"author":           b.Author,
			"category":         b.Category,
			"total_copies":     b.TotalCopies,
			"available_copies": b.AvailableCopies,
		})
	if res.Error != nil {
		r.log.Error("failed to update book in db", zap.Error(res.Error), zap.Int64("id", b.ID))
		return fmt.Errorf("failed to update book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFoundError("book", "Book not found")
	}

	r.log.Info("book updated in db", zap.Int64("id", b.ID))
	return nil
}

// Delete removes a book from the database by ID.
func (r *BookRepoPG) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&BookSchema{}, id)
	if res.Error != nil {
		r.log.Error("failed to delete book in db", zap.Error(res.Error), zap.Int64("id", id))
		return fmt.Errorf("failed to delete book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFoundError("book", "Book not found")
	}

	r.log.Info("book deleted in db", zap.Int64("id", id))
	return nil
}

// Borrow atomically lends one copy of the book: the decrement is guarded by
// the availability condition in a single UPDATE so two concurrent borrowers
// cannot both take the last copy. Returns the updated record.
func (r *BookRepoPG) Borrow(ctx context.Context, id int64) (*book.Book, error) {
	res := r.db.WithContext(ctx).Model(&BookSchema{}).
		Where("id = ? AND available_copies > 0", id).
		Updates(map[string]interface{}{
			"available_copies": gorm.Expr("available_copies - 1"),
			"borrow_count":     gorm.Expr("borrow_count + 1"),
		})
	if res.Error != nil {
		r.log.Error("failed to borrow book in db", zap.Error(res.Error), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to borrow book: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		// Either the book does not exist or no copy is available; a second
		// read tells the two apart.
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		r.log.Debug("no available copies to borrow", zap.Int64("id", id))
		return nil, apperrors.NewConflictError("No available copies to borrow")
	}

	return r.GetByID(ctx, id)
}

// Return atomically takes back one copy of the book, guarded so the
// available count never exceeds the total. Returns the updated record.
func (r *BookRepoPG) Return(ctx context.Context, id int64) (*book.Book, error) {
	res := r.db.WithContext(ctx).Model(&BookSchema{}).
		Where("id = ? AND available_copies < total_copies", id).
		Updates(map[string]interface{}{
			"available_copies": gorm.Expr("available_copies + 1"),
		})
	if res.Error != nil {
		r.log.Error("failed to return book in db", zap.Error(res.Error), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to return book: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		r.log.Debug("all copies already accounted for", zap.Int64("id", id))
		return nil, apperrors.NewConflictError("All copies are already returned")
	}

	return r.GetByID(ctx, id)
}
