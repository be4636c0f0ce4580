package models

// GoodreadsRow is one parsed row of a Goodreads library export
type GoodreadsRow struct {
	Title          string
	Author         string
	ISBN           string
	ISBN13         string
	MyRating       int
	NumberOfPages  int
	ExclusiveShelf string // read, currently-reading, to-read
	DateRead       string
}

// ImportReport summarizes a CSV import run. Row failures are collected,
// never fatal: a bad row skips, the rest of the file still imports.
type ImportReport struct {
	TotalRows        int      `json:"total_rows"`
	BooksCreated     int      `json:"books_created"`
	BooksMatched     int      `json:"books_matched"`
	ProgressUpserted int      `json:"progress_upserted"`
	Skipped          int      `json:"skipped"`
	Errors           []string `json:"errors,omitempty"`
}

// ShelfToStatus maps a Goodreads exclusive shelf to a reading status.
// Unknown shelves default to want_to_read.
func ShelfToStatus(shelf string) string {
	switch shelf {
	case "read":
		return StatusFinished
	case "currently-reading":
		return StatusCurrentlyReading
	default:
		return StatusWantToRead
	}
}
