package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/msrishav-28/penpal/internal/repository"
	"github.com/msrishav-28/penpal/pkg/logger"
	"github.com/msrishav-28/penpal/pkg/models"
	"github.com/msrishav-28/penpal/pkg/utils"
)

// ImportService ingests Goodreads library exports
type ImportService interface {
	// ImportGoodreads streams a Goodreads CSV export, matching or
	// creating catalog books and upserting the user's progress.
	// Row failures are collected in the report, never fatal.
	ImportGoodreads(ctx context.Context, userID string, r io.Reader) (*models.ImportReport, error)
}

type importService struct {
	books        BookService
	progressRepo repository.ProgressRepository
	stats        StatsService
	gamification GamificationService

	now func() time.Time
}

// NewImportService creates a new import service
func NewImportService(
	books BookService,
	progressRepo repository.ProgressRepository,
	stats StatsService,
	gamification GamificationService,
) ImportService {
	return &importService{
		books:        books,
		progressRepo: progressRepo,
		stats:        stats,
		gamification: gamification,
		now:          time.Now,
	}
}

// ImportGoodreads parses and applies a Goodreads CSV export
func (s *importService) ImportGoodreads(ctx context.Context, userID string, r io.Reader) (*models.ImportReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	// Goodreads wraps ISBNs as ="0441013597", which is a bare quote to
	// a strict CSV parser
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read csv header", models.ErrInvalidInput)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols["Title"]; !ok {
		return nil, fmt.Errorf("%w: not a Goodreads export (no Title column)", models.ErrInvalidInput)
	}

	report := &models.ImportReport{}
	finished := 0
	finishedThisYear := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", report.TotalRows+1, err))
			report.TotalRows++
			continue
		}
		report.TotalRows++

		row := parseGoodreadsRow(record, cols)
		if row.Title == "" {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: missing title", report.TotalRows))
			continue
		}

		wasFinished, err := s.importRow(ctx, userID, row, report)
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d (%s): %v", report.TotalRows, row.Title, err))
			continue
		}
		if wasFinished {
			finished++
			if s.readThisYear(row.DateRead) {
				finishedThisYear++
			}
		}
	}

	if finished > 0 {
		s.applyFinished(ctx, userID, finished, finishedThisYear)
	}

	logger.Infof("Goodreads import complete: user=%s rows=%d created=%d matched=%d skipped=%d",
		userID, report.TotalRows, report.BooksCreated, report.BooksMatched, report.Skipped)
	return report, nil
}

// importRow processes one export row. Returns whether the row added a
// newly finished book.
func (s *importService) importRow(ctx context.Context, userID string, row models.GoodreadsRow, report *models.ImportReport) (bool, error) {
	isbn := utils.NormalizeISBN(row.ISBN13)
	if isbn == "" {
		isbn = utils.NormalizeISBN(row.ISBN)
	}

	book, created, err := s.books.FindOrCreate(ctx, models.CreateBookRequest{
		Title:      row.Title,
		Author:     row.Author,
		ISBN:       isbn,
		TotalPages: row.NumberOfPages,
	})
	if err != nil {
		return false, err
	}
	if created {
		report.BooksCreated++
	} else {
		report.BooksMatched++
	}

	status := models.ShelfToStatus(row.ExclusiveShelf)
	progress := &models.ReadingProgress{
		UserID:     userID,
		BookID:     book.ID,
		TotalPages: book.TotalPages,
		Status:     status,
	}
	if row.MyRating >= 1 && row.MyRating <= 5 {
		rating := row.MyRating
		progress.Rating = &rating
	}
	if status == models.StatusFinished {
		progress.CurrentPage = book.TotalPages
	}

	existing, err := s.progressRepo.Get(ctx, userID, book.ID)
	switch {
	case err == nil:
		// Already tracked: only fill in what the export knows better
		if existing.Rating == nil && progress.Rating != nil {
			existing.Rating = progress.Rating
		}
		if existing.Status != models.StatusFinished && status == models.StatusFinished {
			existing.Status = models.StatusFinished
			existing.CurrentPage = progress.CurrentPage
			if err := s.progressRepo.Update(ctx, existing); err != nil {
				return false, err
			}
			report.ProgressUpserted++
			return true, nil
		}
		if err := s.progressRepo.Update(ctx, existing); err != nil {
			return false, err
		}
		report.ProgressUpserted++
		return false, nil
	case errors.Is(err, models.ErrNotFound):
		progress.ID = uuid.New().String()
		if err := s.progressRepo.Create(ctx, progress); err != nil {
			return false, err
		}
		report.ProgressUpserted++
		return status == models.StatusFinished, nil
	default:
		return false, err
	}
}

// applyFinished folds the bulk import into one stats delta, one XP grant
// and one achievement sweep. Threshold checks use >=, so books skipped
// past a threshold in one jump still unlock their achievements.
func (s *importService) applyFinished(ctx context.Context, userID string, finished, thisYear int) {
	delta := models.StatsDelta{BooksRead: finished, BooksThisYear: thisYear}
	if _, err := s.stats.Apply(ctx, userID, delta); err != nil {
		logger.Errorf("Failed to apply import stats: user=%s error=%v", userID, err)
		return
	}
	if _, err := s.gamification.AwardXP(ctx, userID, finishBookXP*finished, "goodreads_import"); err != nil {
		logger.Errorf("Failed to award import xp: user=%s error=%v", userID, err)
	}
	if _, err := s.gamification.CheckAchievements(ctx, userID, models.EventBookCompleted, nil); err != nil {
		logger.Warnf("Achievement check failed after import: user=%s error=%v", userID, err)
	}
}

// readThisYear reports whether a Goodreads Date Read value (yyyy/mm/dd)
// falls in the current year. Rows without a date stay out of the
// books-this-year counter.
func (s *importService) readThisYear(dateRead string) bool {
	if dateRead == "" {
		return false
	}
	read, err := time.Parse("2006/01/02", dateRead)
	if err != nil {
		return false
	}
	return read.Year() == s.now().Year()
}

func parseGoodreadsRow(record []string, cols map[string]int) models.GoodreadsRow {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	atoi := func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	}

	return models.GoodreadsRow{
		Title:          field("Title"),
		Author:         field("Author"),
		ISBN:           field("ISBN"),
		ISBN13:         field("ISBN13"),
		MyRating:       atoi(field("My Rating")),
		NumberOfPages:  atoi(field("Number of Pages")),
		ExclusiveShelf: field("Exclusive Shelf"),
		DateRead:       field("Date Read"),
	}
}
