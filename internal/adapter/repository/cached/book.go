package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"library-management-service/internal/adapter/cache"
	domain "library-management-service/internal/domain/book"
	"library-management-service/internal/usecase/book"
)

// CachedBookRepository implements book.Repository with caching support.
// It wraps a persistent repository (DB) and a cache implementation:
// by-ID reads are cache-aside, every write to a record invalidates its
// cached copy.
type CachedBookRepository struct {
	dbRepo book.Repository
	cache  cache.BookCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedBookRepository creates a new instance of CachedBookRepository.
func NewCachedBookRepository(dbRepo book.Repository, cache cache.BookCache, log *zap.Logger) book.Repository {
	return &CachedBookRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Create delegates to the DB repository.
func (r *CachedBookRepository) Create(ctx context.Context, b *domain.Book) (int64, error) {
	return r.dbRepo.Create(ctx, b)
}

// GetByID retrieves a book by ID using the cache-aside pattern.
func (r *CachedBookRepository) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	if r.cache != nil {
		cachedBook, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
		} else if cachedBook != nil {
			return cachedBook, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	key := fmt.Sprintf("book:%d", id)
	result, err, _ := r.group.Do(key, func() (any, error) {
		// Double-check cache in case another request populated it while we were waiting
		if r.cache != nil {
			cachedBook, err := r.cache.Get(ctx, id)
			if err == nil && cachedBook != nil {
				return cachedBook, nil
			}
		}

		b, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			if err := r.cache.Set(ctx, b); err != nil {
				r.log.Warn("failed to cache book", zap.Int64("id", id), zap.Error(err))
			}
		}

		return b, nil
	})

	if err != nil {
		return nil, err
	}

	return result.(*domain.Book), nil
}

// List delegates to the DB repository.
func (r *CachedBookRepository) List(ctx context.Context) ([]domain.Book, error) {
	return r.dbRepo.List(ctx)
}

// ListByOwner delegates to the DB repository.
func (r *CachedBookRepository) ListByOwner(ctx context.Context, userID int64) ([]domain.Book, error) {
	return r.dbRepo.ListByOwner(ctx, userID)
}

// Search delegates to the DB repository.
func (r *CachedBookRepository) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Book, error) {
	return r.dbRepo.Search(ctx, filter)
}

// MostBorrowed delegates to the DB repository.
func (r *CachedBookRepository) MostBorrowed(ctx context.Context, limit int) ([]domain.Book, error) {
	return r.dbRepo.MostBorrowed(ctx, limit)
}

// Update updates the book in DB and invalidates the cache.
func (r *CachedBookRepository) Update(ctx context.Context, b *domain.Book) error {
	if err := r.dbRepo.Update(ctx, b); err != nil {
		return err
	}

	r.invalidate(ctx, b.ID)
	return nil
}

// Delete deletes the book from DB and invalidates the cache.
func (r *CachedBookRepository) Delete(ctx context.Context, id int64) error {
	if err := r.dbRepo.Delete(ctx, id); err != nil {
		return err
	}

	r.invalidate(ctx, id)
	return nil
}

// Borrow delegates to the DB repository and refreshes the cache with the
// updated record.
func (r *CachedBookRepository) Borrow(ctx context.Context, id int64) (*domain.Book, error) {
	b, err := r.dbRepo.Borrow(ctx, id)
	if err != nil {
		return nil, err
	}

	r.refresh(ctx, b)
	return b, nil
}

// Return delegates to the DB repository and refreshes the cache with the
// updated record.
func (r *CachedBookRepository) Return(ctx context.Context, id int64) (*domain.Book, error) {
	b, err := r.dbRepo.Return(ctx, id)
	if err != nil {
		return nil, err
	}

	r.refresh(ctx, b)
	return b, nil
}

func (r *CachedBookRepository) invalidate(ctx context.Context, id int64) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("failed to invalidate cache", zap.Int64("id", id), zap.Error(err))
	}
}

func (r *CachedBookRepository) refresh(ctx context.Context, b *domain.Book) {
	if r.cache == nil || b == nil {
		return
	}
	if err := r.cache.Set(ctx, b); err != nil {
		r.log.Warn("failed to refresh cache", zap.Int64("id", b.ID), zap.Error(err))
	}
}
