package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"bookstore/pkg/library"
	"bookstore/pkg/models"
	"bookstore/pkg/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type server struct {
	db      *gorm.DB
	library *library.Service
}

func newServer(db *gorm.DB) *server {
	return &server{
		db:      db,
		library: library.NewService(store.NewBookStore(db)),
	}
}

type createBookRequest struct {
	BookID int    `json:"book_id" binding:"required,gte=100000,lte=999999"`
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
}

type borrowBookRequest struct {
	BorrowerCardNumber int `json:"borrower_card_number" binding:"required,gte=100000,lte=999999"`
}

func (s *server) createBook(c *gin.Context) {
	var request createBookRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := s.library.AddBook(request.BookID, request.Title, request.Author)
	if err != nil {
		if errors.Is(err, store.ErrBookExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create book"})
		return
	}

	c.JSON(http.StatusCreated, bookResponse(book))
}

func (s *server) getAllBooks(c *gin.Context) {
	books, err := s.library.ListBooks()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve books"})
		return
	}

	items := make([]gin.H, len(books))
	for i := range books {
		items[i] = bookResponse(&books[i])
	}
	c.JSON(http.StatusOK, items)
}

func (s *server) deleteBook(c *gin.Context) {
	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}

	if err := s.library.DeleteBook(bookID); err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete book"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *server) borrowBook(c *gin.Context) {
	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}

	var request borrowBookRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := s.library.BorrowBook(bookID, request.BorrowerCardNumber)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		case errors.Is(err, library.ErrAlreadyBorrowed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to borrow book"})
		}
		return
	}

	c.JSON(http.StatusOK, bookResponse(book))
}

func (s *server) returnBook(c *gin.Context) {
	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}

	book, err := s.library.ReturnBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		case errors.Is(err, library.ErrNotBorrowed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to return book"})
		}
		return
	}

	c.JSON(http.StatusOK, bookResponse(book))
}

func (s *server) healthCheck(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database connection failed",
			"error":   err.Error(),
		})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database ping failed",
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "UP",
		"details": "Bookstore service is active",
	})
}

func bookIDParam(c *gin.Context) (int, bool) {
	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "book_id must be an integer"})
		return 0, false
	}
	return bookID, true
}

func bookResponse(book *models.Book) gin.H {
	return gin.H{
		"book_id":              book.BookID,
		"title":                book.Title,
		"author":               book.Author,
		"is_borrowed":          book.IsBorrowed,
		"borrowed_date":        book.BorrowedDate,
		"borrower_card_number": book.BorrowerCardNumber,
	}
}

func (s *server) seedDemoBooks() {
	demoBooks := []models.Book{
		{BookID: 100001, Title: "The Lord of the Rings", Author: "J.R.R. Tolkien"},
		{BookID: 100002, Title: "1984", Author: "George Orwell"},
	}

	for _, book := range demoBooks {
		if _, err := s.library.GetBook(book.BookID); err == nil {
			continue
		}
		if _, err := s.library.AddBook(book.BookID, book.Title, book.Author); err != nil {
			log.Printf("Failed to seed book %d: %v", book.BookID, err)
		} else {
			log.Printf("Seeded demo book: %s", book.Title)
		}
	}
	log.Println("Demo books seeded")
}
