package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "library-management-service/internal/domain/book"
	apperrors "library-management-service/pkg/errors"
)

// BookResponse represents the JSON shape of a book record.
type BookResponse struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Category        string    `json:"category"`
	TotalCopies     int64     `json:"totalCopies"`
	AvailableCopies int64     `json:"availableCopies"`
	BorrowCount     int64     `json:"borrowCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		Title:           b.Title,
		Author:          b.Author,
		Category:        b.Category,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		BorrowCount:     b.BorrowCount,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toBookResponses(books []domain.Book) []BookResponse {
	out := make([]BookResponse, len(books))
	for i := range books {
		out[i] = toBookResponse(&books[i])
	}
	return out
}

// respondError writes the JSON error response for a usecase error, using the
// status carried by the typed application errors and defaulting to 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	status := apperrors.StatusOf(err)
	if status >= 500 {
		log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
