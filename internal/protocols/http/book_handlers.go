package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/msrishav-28/penpal/pkg/models"
)

func pagingParams(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

// createBook adds a book to the shared catalog
func (s *Server) createBook(c *gin.Context) {
	var req models.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := s.bookSvc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "Book added to catalog", gin.H{"book": book})
}

// getBook returns a single book
func (s *Server) getBook(c *gin.Context) {
	book, err := s.bookSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", gin.H{"book": book})
}

// listBooks returns recently added books
func (s *Server) listBooks(c *gin.Context) {
	limit, offset := pagingParams(c)
	resp, err := s.bookSvc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", resp)
}

// searchBooks performs a filtered catalog search
func (s *Server) searchBooks(c *gin.Context) {
	var req models.BookSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "invalid search parameters")
		return
	}

	resp, err := s.bookSvc.Search(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", resp)
}

// updateBook applies a partial book update
func (s *Server) updateBook(c *gin.Context) {
	var req models.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := s.bookSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Book updated", gin.H{"book": book})
}
