package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"library-management-service/internal/adapter/gin/middleware"
	domain "library-management-service/internal/domain/book"
	"library-management-service/internal/usecase/book"
)

// BookUsecase defines the book operations the handler depends on.
type BookUsecase interface {
	Create(ctx context.Context, in book.CreateBookRequest) (*domain.Book, error)
	List(ctx context.Context) ([]domain.Book, error)
	ListOwn(ctx context.Context, actorID int64) ([]domain.Book, error)
	Search(ctx context.Context, in book.SearchRequest) ([]domain.Book, error)
	MostBorrowed(ctx context.Context) ([]domain.Book, error)
	Update(ctx context.Context, in book.UpdateBookRequest) (*domain.Book, error)
	Delete(ctx context.Context, in book.DeleteBookRequest) error
	Borrow(ctx context.Context, id int64) (*domain.Book, error)
	Return(ctx context.Context, id int64) (*domain.Book, error)
}

// BookHandler handles HTTP requests for book operations
type BookHandler struct {
	uc  BookUsecase
	log *zap.Logger
}

// NewBookHandler creates a new BookHandler instance
func NewBookHandler(uc BookUsecase, log *zap.Logger) *BookHandler {
	return &BookHandler{
		uc:  uc,
		log: log,
	}
}

// CreateBookRequest represents the HTTP request body for creating a book
type CreateBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	TotalCopies *int64 `json:"totalCopies"`
}

// UpdateBookRequest represents the HTTP request body for updating a book.
// Absent fields retain their prior values.
type UpdateBookRequest struct {
	Title           *string `json:"title"`
	Author          *string `json:"author"`
	Category        *string `json:"category"`
	TotalCopies     *int64  `json:"totalCopies"`
	AvailableCopies *int64  `json:"availableCopies"`
}

// parseID parses the :id route parameter.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id."})
		return 0, false
	}
	return id, true
}

// List handles GET /books
func (h *BookHandler) List(c *gin.Context) {
	books, err := h.uc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if len(books) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No books found."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": toBookResponses(books)})
}

// ListOwn handles GET /books/user
func (h *BookHandler) ListOwn(c *gin.Context) {
	actor := middleware.ActingUser(c)

	books, err := h.uc.ListOwn(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":     actor.Email,
		"userBooks": toBookResponses(books),
	})
}

// Search handles GET /books/search
func (h *BookHandler) Search(c *gin.Context) {
	req := book.SearchRequest{
		Title:    c.Query("title"),
		Author:   c.Query("author"),
		Category: c.Query("category"),
	}

	books, err := h.uc.Search(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if len(books) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No books found.", "books": []BookResponse{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": toBookResponses(books)})
}

// MostBorrowed handles GET /books/most-borrowed
func (h *BookHandler) MostBorrowed(c *gin.Context) {
	books, err := h.uc.MostBorrowed(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mostBorrowedBooks": toBookResponses(books)})
}

// Create handles POST /books
func (h *BookHandler) Create(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	actor := middleware.ActingUser(c)

	b, err := h.uc.Create(c.Request.Context(), book.CreateBookRequest{
		ActorID:     actor.ID,
		Title:       req.Title,
		Author:      req.Author,
		Category:    req.Category,
		TotalCopies: req.TotalCopies,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": "Book created successfully",
		"book":    toBookResponse(b),
	})
}

// Update handles PUT /books/:id
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	actor := middleware.ActingUser(c)

	_, err := h.uc.Update(c.Request.Context(), book.UpdateBookRequest{
		ID:              id,
		ActorID:         actor.ID,
		Title:           req.Title,
		Author:          req.Author,
		Category:        req.Category,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.AvailableCopies,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": "Book updated successfully"})
}

// Delete handles DELETE /books/:id
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	actor := middleware.ActingUser(c)

	if err := h.uc.Delete(c.Request.Context(), book.DeleteBookRequest{ID: id, ActorID: actor.ID}); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": "Book deleted successfully"})
}

// Borrow handles POST /books/borrow/:id
func (h *BookHandler) Borrow(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.uc.Borrow(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"book": toBookResponse(b)})
}

// Return handles POST /books/return/:id
func (h *BookHandler) Return(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.uc.Return(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"book": toBookResponse(b)})
}
