package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msrishav-28/penpal/pkg/models"
)

const goodreadsHeader = "Title,Author,ISBN,ISBN13,My Rating,Number of Pages,Exclusive Shelf,Date Read\n"

type importFixture struct {
	bookRepo     *fakeBookRepo
	progressRepo *fakeProgressRepo
	statsRepo    *fakeStatsRepo
	gamRepo      *fakeGamRepo
	svc          *importService
}

func newImportFixture(t *testing.T) *importFixture {
	t.Helper()

	f := &importFixture{
		bookRepo:     newFakeBookRepo(),
		progressRepo: newFakeProgressRepo(),
		statsRepo:    newFakeStatsRepo(&models.UserStats{UserID: "u1"}),
		gamRepo:      newFakeGamRepo(&models.Gamification{UserID: "u1", Level: 1, Rank: "Novice Reader"}),
	}

	users := newFakeUserRepo(&models.User{ID: "u1", Username: "alice"})
	gamSvc := NewGamificationService(users, f.statsRepo, f.gamRepo, &fakeActivityRepo{}, &recordingNotifier{}, nil)
	svc := NewImportService(NewBookService(f.bookRepo), f.progressRepo, NewStatsService(f.statsRepo), gamSvc)
	f.svc = svc.(*importService)
	// Pin the clock so Date Read year checks do not drift with the wall clock
	f.svc.now = func() time.Time { return time.Date(2026, time.April, 2, 12, 0, 0, 0, time.UTC) }
	return f
}

func TestImportGoodreads(t *testing.T) {
	f := newImportFixture(t)

	csv := goodreadsHeader +
		`Dune,Frank Herbert,="0441013597",="9780441013593",5,412,read,2025/11/02` + "\n" +
		`Hyperion,Dan Simmons,,,0,482,currently-reading,` + "\n" +
		`Piranesi,Susanna Clarke,,,0,245,to-read,` + "\n"

	report, err := f.svc.ImportGoodreads(context.Background(), "u1", strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalRows)
	assert.Equal(t, 3, report.BooksCreated)
	assert.Equal(t, 0, report.BooksMatched)
	assert.Equal(t, 3, report.ProgressUpserted)
	assert.Equal(t, 0, report.Skipped)
	assert.Empty(t, report.Errors)

	// The read shelf landed as a finished book with its rating
	dune, err := f.bookRepo.FindByISBN(context.Background(), "9780441013593")
	require.NoError(t, err)
	progress, err := f.progressRepo.Get(context.Background(), "u1", dune.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinished, progress.Status)
	assert.Equal(t, 412, progress.CurrentPage)
	require.NotNil(t, progress.Rating)
	assert.Equal(t, 5, *progress.Rating)

	// Bulk finish folded into one stats delta and one XP grant
	stats, _ := f.statsRepo.Get(context.Background(), "u1")
	assert.Equal(t, 1, stats.TotalBooksRead)
	assert.Equal(t, 0, stats.BooksThisYear, "a 2025 Date Read does not count toward 2026")
	held, _ := f.gamRepo.HasBadge(context.Background(), "u1", "first_book")
	assert.True(t, held)

	gam, _ := f.gamRepo.Get(context.Background(), "u1")
	assert.Equal(t, 150, gam.XP, "100 for the finished book plus the 50 first_book reward")
}

func TestImportGoodreadsCountsCurrentYear(t *testing.T) {
	f := newImportFixture(t)

	csv := goodreadsHeader +
		`Dune,Frank Herbert,,="9780441013593",5,412,read,2025/11/02` + "\n" +
		`Hyperion,Dan Simmons,,,4,482,read,2026/02/10` + "\n"

	_, err := f.svc.ImportGoodreads(context.Background(), "u1", strings.NewReader(csv))
	require.NoError(t, err)

	stats, _ := f.statsRepo.Get(context.Background(), "u1")
	assert.Equal(t, 2, stats.TotalBooksRead)
	assert.Equal(t, 1, stats.BooksThisYear)

	gam, _ := f.gamRepo.Get(context.Background(), "u1")
	assert.Equal(t, 250, gam.XP, "two finished books plus the first_book reward")
}

func TestImportGoodreadsMatchesExistingBook(t *testing.T) {
	f := newImportFixture(t)
	require.NoError(t, f.bookRepo.Create(context.Background(), &models.Book{
		ID:     "b1",
		Title:  "Dune",
		Author: "Frank Herbert",
		ISBN:   "9780441013593",
	}))

	csv := goodreadsHeader +
		`Dune,Frank Herbert,,="9780441013593",0,412,to-read,` + "\n"

	report, err := f.svc.ImportGoodreads(context.Background(), "u1", strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 0, report.BooksCreated)
	assert.Equal(t, 1, report.BooksMatched)
}

func TestImportGoodreadsSkipsBadRows(t *testing.T) {
	f := newImportFixture(t)

	csv := goodreadsHeader +
		`,No Title,,,0,100,read,` + "\n" +
		`Piranesi,Susanna Clarke,,,0,245,to-read,` + "\n"

	report, err := f.svc.ImportGoodreads(context.Background(), "u1", strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalRows)
	assert.Equal(t, 1, report.Skipped)
	assert.Len(t, report.Errors, 1)
	assert.Equal(t, 1, report.ProgressUpserted)
}

func TestImportGoodreadsUpgradesExistingProgress(t *testing.T) {
	f := newImportFixture(t)
	require.NoError(t, f.bookRepo.Create(context.Background(), &models.Book{
		ID:         "b1",
		Title:      "Dune",
		Author:     "Frank Herbert",
		ISBN:       "9780441013593",
		TotalPages: 412,
	}))
	require.NoError(t, f.progressRepo.Create(context.Background(), &models.ReadingProgress{
		ID:          "p1",
		UserID:      "u1",
		BookID:      "b1",
		CurrentPage: 100,
		TotalPages:  412,
		Status:      models.StatusCurrentlyReading,
	}))

	csv := goodreadsHeader +
		`Dune,Frank Herbert,,="9780441013593",4,412,read,2025/11/02` + "\n"

	report, err := f.svc.ImportGoodreads(context.Background(), "u1", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, report.ProgressUpserted)

	progress, err := f.progressRepo.Get(context.Background(), "u1", "b1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinished, progress.Status)
	require.NotNil(t, progress.Rating)
	assert.Equal(t, 4, *progress.Rating)

	stats, _ := f.statsRepo.Get(context.Background(), "u1")
	assert.Equal(t, 1, stats.TotalBooksRead)
}

func TestImportGoodreadsNeverDowngradesFinished(t *testing.T) {
	f := newImportFixture(t)
	require.NoError(t, f.bookRepo.Create(context.Background(), &models.Book{
		ID:     "b1",
		Title:  "Dune",
		Author: "Frank Herbert",
		ISBN:   "9780441013593",
	}))
	require.NoError(t, f.progressRepo.Create(context.Background(), &models.ReadingProgress{
		ID:     "p1",
		UserID: "u1",
		BookID: "b1",
		Status: models.StatusFinished,
	}))

	csv := goodreadsHeader +
		`Dune,Frank Herbert,,="9780441013593",0,412,to-read,` + "\n"

	_, err := f.svc.ImportGoodreads(context.Background(), "u1", strings.NewReader(csv))
	require.NoError(t, err)

	progress, err := f.progressRepo.Get(context.Background(), "u1", "b1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinished, progress.Status)

	// Already finished books do not count again
	stats, _ := f.statsRepo.Get(context.Background(), "u1")
	assert.Equal(t, 0, stats.TotalBooksRead)
}

func TestImportGoodreadsRejectsNonExport(t *testing.T) {
	f := newImportFixture(t)

	_, err := f.svc.ImportGoodreads(context.Background(), "u1", strings.NewReader("a,b,c\n1,2,3\n"))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
