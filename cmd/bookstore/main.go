package main

import (
	"log"
	"os"

	"bookstore/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func main() {
	log.Println("Starting bookstore service...")

	db := database.InitBookstoreDB()
	srv := newServer(db)

	if getEnv("SEED_DEMO_BOOKS", "false") == "true" {
		srv.seedDemoBooks()
	}

	router := gin.Default()
	router.Use(requestID())
	router.POST("/books/", srv.createBook)
	router.GET("/books/", srv.getAllBooks)
	router.DELETE("/books/:bookId", srv.deleteBook)
	router.PATCH("/books/:bookId/borrow", srv.borrowBook)
	router.PATCH("/books/:bookId/return", srv.returnBook)
	router.GET("/manage/health", srv.healthCheck)

	addr := ":" + getEnv("PORT", "8000")
	log.Println("Bookstore service starting on " + addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		c.Writer.Header().Set("X-Request-Id", id)
		c.Next()
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
