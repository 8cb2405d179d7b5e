package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	defaultBooksLimit = 50
	maxBooksLimit     = 500
)

// CatalogController serves the loaded authors and books.
type CatalogController struct {
	authors AuthorReader
	books   BookReader
	stats   StatsReader
}

func NewCatalogController(authors AuthorReader, books BookReader, stats StatsReader) *CatalogController {
	return &CatalogController{
		authors: authors,
		books:   books,
		stats:   stats,
	}
}

// GetAuthor handles GET /api/authors/:id
func (cc *CatalogController) GetAuthor(c *gin.Context) {
	author, found, err := cc.authors.FindAuthorByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "get author")
		return
	}
	if !found {
		respondNotFound(c, "author")
		return
	}
	c.IndentedJSON(http.StatusOK, author)
}

// GetAuthorBooks handles GET /api/authors/:id/books
func (cc *CatalogController) GetAuthorBooks(c *gin.Context) {
	limit, ok := parseLimit(c, defaultBooksLimit, maxBooksLimit)
	if !ok {
		return
	}

	books, err := cc.books.FindBooksByAuthorID(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondInternalError(c, err, "get author books")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// GetBook handles GET /api/books/:id
func (cc *CatalogController) GetBook(c *gin.Context) {
	book, found, err := cc.books.FindBookByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	if !found {
		respondNotFound(c, "book")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

// GetStats handles GET /api/stats
func (cc *CatalogController) GetStats(c *gin.Context) {
	stats, err := cc.stats.GetStats()
	if err != nil {
		respondInternalError(c, err, "get stats")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{
		"total_authors": stats.Authors,
		"total_books":   stats.Books,
	})
}
