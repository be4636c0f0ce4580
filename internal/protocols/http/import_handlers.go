package http

import (
	"github.com/gin-gonic/gin"

	"github.com/msrishav-28/penpal/pkg/utils"
)

// maxImportSize caps uploaded CSV files at 10 MB
const maxImportSize = 10 << 20

// importGoodreads ingests a Goodreads library export CSV
func (s *Server) importGoodreads(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "missing csv file upload (field name: file)")
		return
	}
	if fileHeader.Size > maxImportSize {
		respondBadRequest(c, "csv file too large (10MB max)")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondBadRequest(c, "cannot open uploaded file")
		return
	}
	defer file.Close()

	// Imports walk the whole file, so they get the long timeout
	ctx, cancel := utils.WithLongTimeout(c.Request.Context())
	defer cancel()

	report, err := s.importSvc.ImportGoodreads(ctx, userID, file)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Import complete", report)
}
