package store

import (
	"errors"
	"fmt"

	"bookstore/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrBookExists   = errors.New("book with this book_id already exists")
	ErrBookNotFound = errors.New("book not found")
)

// BookStore is the persistence contract for book records. Every operation
// is a single transaction; Update applies its mutator between the read and
// the write of the same transaction so concurrent callers cannot both act
// on a stale status.
type BookStore interface {
	Create(book *models.Book) error
	Get(bookID int) (*models.Book, error)
	List() ([]models.Book, error)
	Update(bookID int, mutate func(*models.Book) error) (*models.Book, error)
	Delete(bookID int) error
}

type gormStore struct {
	db *gorm.DB
}

func NewBookStore(db *gorm.DB) BookStore {
	return &gormStore{db: db}
}

func (s *gormStore) Create(book *models.Book) error {
	// The unique index on book_id is the duplicate check: a racing create
	// of the same id loses on the constraint, not on a stale pre-read.
	err := s.db.Create(book).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrBookExists
	}
	if err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

func (s *gormStore) Get(bookID int) (*models.Book, error) {
	var book models.Book
	err := s.db.Where("book_id = ?", bookID).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return &book, nil
}

func (s *gormStore) List() ([]models.Book, error) {
	var books []models.Book
	err := s.db.Order("id").Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

func (s *gormStore) Update(bookID int, mutate func(*models.Book) error) (*models.Book, error) {
	var book models.Book
	err := s.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Where("book_id = ?", bookID)
		// On Postgres the row must be locked with the read, so a racing
		// transition waits here and then re-reads the committed state
		// instead of guarding against a stale snapshot. SQLite has no
		// FOR UPDATE and serializes writer transactions on its own.
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		err := query.First(&book).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get book: %w", err)
		}
		if err := mutate(&book); err != nil {
			return err
		}
		// Updates with a struct skips zero and nil values, so cleared
		// status fields have to be written out through a map.
		return tx.Model(&book).Updates(map[string]interface{}{
			"is_borrowed":          book.IsBorrowed,
			"borrowed_date":        book.BorrowedDate,
			"borrower_card_number": book.BorrowerCardNumber,
			"title":                book.Title,
			"author":               book.Author,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (s *gormStore) Delete(bookID int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("book_id = ?", bookID).Delete(&models.Book{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete book: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrBookNotFound
		}
		return nil
	})
}
