package library

import (
	"errors"
	"time"

	"bookstore/pkg/models"
	"bookstore/pkg/store"
)

var (
	ErrAlreadyBorrowed = errors.New("book is already borrowed")
	ErrNotBorrowed     = errors.New("book is not currently borrowed")
)

// Service applies checkout transitions on top of a BookStore. A book is
// either available or borrowed; Borrow and Return are only legal from the
// opposite state and are validated against the record read inside the same
// store transaction that writes the new state.
type Service struct {
	store store.BookStore
}

func NewService(s store.BookStore) *Service {
	return &Service{store: s}
}

func (s *Service) AddBook(bookID int, title, author string) (*models.Book, error) {
	book := &models.Book{
		BookID: bookID,
		Title:  title,
		Author: author,
	}
	if err := s.store.Create(book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *Service) GetBook(bookID int) (*models.Book, error) {
	return s.store.Get(bookID)
}

func (s *Service) ListBooks() ([]models.Book, error) {
	return s.store.List()
}

func (s *Service) DeleteBook(bookID int) error {
	return s.store.Delete(bookID)
}

func (s *Service) BorrowBook(bookID int, borrowerCardNumber int) (*models.Book, error) {
	return s.store.Update(bookID, func(book *models.Book) error {
		if book.IsBorrowed {
			return ErrAlreadyBorrowed
		}
		now := time.Now().UTC()
		book.IsBorrowed = true
		book.BorrowedDate = &now
		book.BorrowerCardNumber = &borrowerCardNumber
		return nil
	})
}

func (s *Service) ReturnBook(bookID int) (*models.Book, error) {
	return s.store.Update(bookID, func(book *models.Book) error {
		if !book.IsBorrowed {
			return ErrNotBorrowed
		}
		book.IsBorrowed = false
		book.BorrowedDate = nil
		book.BorrowerCardNumber = nil
		return nil
	})
}
