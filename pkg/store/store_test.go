package store

import (
	"testing"
	"time"

	"bookstore/pkg/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		panic("failed to connect test database")
	}
	db.AutoMigrate(&models.Book{})
	return db
}

func TestCreateAndGet(t *testing.T) {
	s := NewBookStore(setupTestDB())

	book := &models.Book{BookID: 100001, Title: "Test Book", Author: "Test Author"}
	err := s.Create(book)
	assert.NoError(t, err)

	got, err := s.Get(100001)
	assert.NoError(t, err)
	assert.Equal(t, 100001, got.BookID)
	assert.Equal(t, "Test Book", got.Title)
	assert.Equal(t, "Test Author", got.Author)
	assert.False(t, got.IsBorrowed)
	assert.Nil(t, got.BorrowedDate)
	assert.Nil(t, got.BorrowerCardNumber)
}

func TestCreateDuplicate(t *testing.T) {
	s := NewBookStore(setupTestDB())

	err := s.Create(&models.Book{BookID: 100001, Title: "Original", Author: "Author"})
	assert.NoError(t, err)

	err = s.Create(&models.Book{BookID: 100001, Title: "Impostor", Author: "Other"})
	assert.ErrorIs(t, err, ErrBookExists)

	got, err := s.Get(100001)
	assert.NoError(t, err)
	assert.Equal(t, "Original", got.Title)
}

func TestGetNotFound(t *testing.T) {
	s := NewBookStore(setupTestDB())

	_, err := s.Get(999999)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestListInsertionOrder(t *testing.T) {
	s := NewBookStore(setupTestDB())

	// ids deliberately out of numeric order: List follows insertion, not id
	inserted := []models.Book{
		{BookID: 100003, Title: "First", Author: "Author"},
		{BookID: 100001, Title: "Second", Author: "Author"},
		{BookID: 100002, Title: "Third", Author: "Author"},
	}
	for i := range inserted {
		err := s.Create(&inserted[i])
		assert.NoError(t, err)
	}

	books, err := s.List()
	assert.NoError(t, err)
	assert.Len(t, books, 3)
	assert.Equal(t, "First", books[0].Title)
	assert.Equal(t, "Second", books[1].Title)
	assert.Equal(t, "Third", books[2].Title)
}

func TestListEmpty(t *testing.T) {
	s := NewBookStore(setupTestDB())

	books, err := s.List()
	assert.NoError(t, err)
	assert.Len(t, books, 0)
}

func TestUpdateAppliesMutation(t *testing.T) {
	s := NewBookStore(setupTestDB())

	err := s.Create(&models.Book{BookID: 100001, Title: "Test Book", Author: "Test Author"})
	assert.NoError(t, err)

	now := time.Now().UTC()
	card := 111222
	updated, err := s.Update(100001, func(book *models.Book) error {
		book.IsBorrowed = true
		book.BorrowedDate = &now
		book.BorrowerCardNumber = &card
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, updated.IsBorrowed)

	got, err := s.Get(100001)
	assert.NoError(t, err)
	assert.True(t, got.IsBorrowed)
	assert.NotNil(t, got.BorrowedDate)
	assert.Equal(t, 111222, *got.BorrowerCardNumber)
}

func TestUpdateClearsFields(t *testing.T) {
	s := NewBookStore(setupTestDB())

	now := time.Now().UTC()
	card := 111222
	err := s.Create(&models.Book{
		BookID:             100001,
		Title:              "Test Book",
		Author:             "Test Author",
		IsBorrowed:         true,
		BorrowedDate:       &now,
		BorrowerCardNumber: &card,
	})
	assert.NoError(t, err)

	_, err = s.Update(100001, func(book *models.Book) error {
		book.IsBorrowed = false
		book.BorrowedDate = nil
		book.BorrowerCardNumber = nil
		return nil
	})
	assert.NoError(t, err)

	got, err := s.Get(100001)
	assert.NoError(t, err)
	assert.False(t, got.IsBorrowed)
	assert.Nil(t, got.BorrowedDate)
	assert.Nil(t, got.BorrowerCardNumber)
}

func TestUpdateGuardSeesCommittedState(t *testing.T) {
	s := NewBookStore(setupTestDB())

	err := s.Create(&models.Book{BookID: 100001, Title: "Test Book", Author: "Test Author"})
	assert.NoError(t, err)

	borrow := func(card int) error {
		_, err := s.Update(100001, func(book *models.Book) error {
			if book.IsBorrowed {
				return assert.AnError
			}
			now := time.Now().UTC()
			book.IsBorrowed = true
			book.BorrowedDate = &now
			book.BorrowerCardNumber = &card
			return nil
		})
		return err
	}

	// Second transition must guard against the first one's committed
	// write, never against the state it was read into.
	assert.NoError(t, borrow(111222))
	assert.ErrorIs(t, borrow(333444), assert.AnError)

	got, err := s.Get(100001)
	assert.NoError(t, err)
	assert.True(t, got.IsBorrowed)
	assert.Equal(t, 111222, *got.BorrowerCardNumber)
}

func TestUpdateMutatorErrorRollsBack(t *testing.T) {
	s := NewBookStore(setupTestDB())

	err := s.Create(&models.Book{BookID: 100001, Title: "Test Book", Author: "Test Author"})
	assert.NoError(t, err)

	wantErr := assert.AnError
	_, err = s.Update(100001, func(book *models.Book) error {
		book.IsBorrowed = true
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	got, err := s.Get(100001)
	assert.NoError(t, err)
	assert.False(t, got.IsBorrowed)
}

func TestUpdateNotFound(t *testing.T) {
	s := NewBookStore(setupTestDB())

	_, err := s.Update(999999, func(book *models.Book) error { return nil })
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestDelete(t *testing.T) {
	s := NewBookStore(setupTestDB())

	err := s.Create(&models.Book{BookID: 100001, Title: "Test Book", Author: "Test Author"})
	assert.NoError(t, err)

	err = s.Delete(100001)
	assert.NoError(t, err)

	_, err = s.Get(100001)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestDeleteNotFound(t *testing.T) {
	s := NewBookStore(setupTestDB())

	err := s.Delete(999999)
	assert.ErrorIs(t, err, ErrBookNotFound)
}
