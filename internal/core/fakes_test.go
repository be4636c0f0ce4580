package core

import (
	"context"
	"time"

	"github.com/msrishav-28/penpal/pkg/models"
)

// In-memory fakes for the repository layer. Each one implements just
// enough behavior for the service under test, including the sentinel
// errors the real PostgreSQL repositories map to.

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (r *fakeUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return models.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(r.users, id)
	return nil
}

type fakeStatsRepo struct {
	stats     map[string]*models.UserStats
	conflicts int // next N UpdateCAS calls fail with ErrStatsConflict
	updates   int
}

func newFakeStatsRepo(stats ...*models.UserStats) *fakeStatsRepo {
	r := &fakeStatsRepo{stats: make(map[string]*models.UserStats)}
	for _, s := range stats {
		r.stats[s.UserID] = s
	}
	return r
}

func (r *fakeStatsRepo) Get(ctx context.Context, userID string) (*models.UserStats, error) {
	s, ok := r.stats[userID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeStatsRepo) UpdateCAS(ctx context.Context, stats *models.UserStats) error {
	if r.conflicts > 0 {
		r.conflicts--
		return models.ErrStatsConflict
	}
	stored, ok := r.stats[stats.UserID]
	if !ok {
		return models.ErrUserNotFound
	}
	if stored.Revision != stats.Revision {
		return models.ErrStatsConflict
	}
	stats.Revision++
	copied := *stats
	r.stats[stats.UserID] = &copied
	r.updates++
	return nil
}

type fakeGamRepo struct {
	state     map[string]*models.Gamification
	badges    map[string][]models.Badge
	updateErr error
}

func newFakeGamRepo(state ...*models.Gamification) *fakeGamRepo {
	r := &fakeGamRepo{
		state:  make(map[string]*models.Gamification),
		badges: make(map[string][]models.Badge),
	}
	for _, g := range state {
		r.state[g.UserID] = g
	}
	return r
}

func (r *fakeGamRepo) Get(ctx context.Context, userID string) (*models.Gamification, error) {
	g, ok := r.state[userID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	copied := *g
	return &copied, nil
}

func (r *fakeGamRepo) Update(ctx context.Context, g *models.Gamification) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	copied := *g
	r.state[g.UserID] = &copied
	return nil
}

func (r *fakeGamRepo) ListBadges(ctx context.Context, userID string) ([]models.Badge, error) {
	return r.badges[userID], nil
}

func (r *fakeGamRepo) HasBadge(ctx context.Context, userID, achievementID string) (bool, error) {
	for _, b := range r.badges[userID] {
		if b.AchievementID == achievementID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeGamRepo) InsertBadge(ctx context.Context, badge *models.Badge) error {
	held, _ := r.HasBadge(ctx, badge.UserID, badge.AchievementID)
	if held {
		return models.ErrAchievementEarned
	}
	r.badges[badge.UserID] = append(r.badges[badge.UserID], *badge)
	return nil
}

func (r *fakeGamRepo) TopByXP(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	for _, g := range r.state {
		entries = append(entries, models.LeaderboardEntry{
			UserID: g.UserID,
			XP:     g.XP,
			Level:  g.Level,
			Title:  g.Rank,
		})
		if len(entries) == limit {
			break
		}
	}
	return entries, nil
}

type fakeBookRepo struct {
	books map[string]*models.Book
}

func newFakeBookRepo(books ...*models.Book) *fakeBookRepo {
	r := &fakeBookRepo{books: make(map[string]*models.Book)}
	for _, b := range books {
		r.books[b.ID] = b
	}
	return r
}

func (r *fakeBookRepo) Create(ctx context.Context, book *models.Book) error {
	r.books[book.ID] = book
	return nil
}

func (r *fakeBookRepo) GetByID(ctx context.Context, id string) (*models.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, models.ErrBookNotFound
	}
	return b, nil
}

func (r *fakeBookRepo) FindByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	for _, b := range r.books {
		if b.ISBN == isbn && isbn != "" {
			return b, nil
		}
	}
	return nil, models.ErrBookNotFound
}

func (r *fakeBookRepo) FindByTitleAuthor(ctx context.Context, title, author string) (*models.Book, error) {
	for _, b := range r.books {
		if b.Title == title && b.Author == author {
			return b, nil
		}
	}
	return nil, models.ErrBookNotFound
}

func (r *fakeBookRepo) Search(ctx context.Context, req models.BookSearchRequest) ([]models.Book, int, error) {
	return nil, 0, nil
}

func (r *fakeBookRepo) List(ctx context.Context, limit, offset int) ([]models.Book, int, error) {
	return nil, 0, nil
}

func (r *fakeBookRepo) Update(ctx context.Context, id string, req *models.UpdateBookRequest) error {
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*models.ReadingSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.ReadingSession)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *models.ReadingSession) error {
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id string) (*models.ReadingSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSessionRepo) GetActiveByUser(ctx context.Context, userID string) (*models.ReadingSession, error) {
	for _, s := range r.sessions {
		if s.UserID == userID && s.Status == models.SessionStatusActive {
			copied := *s
			return &copied, nil
		}
	}
	return nil, models.ErrSessionNotFound
}

func (r *fakeSessionRepo) Complete(ctx context.Context, session *models.ReadingSession) error {
	stored, ok := r.sessions[session.ID]
	if !ok || stored.Status != models.SessionStatusActive {
		return models.ErrSessionNotActive
	}
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) List(ctx context.Context, userID string, req models.SessionListRequest) ([]models.ReadingSession, int, error) {
	var out []models.ReadingSession
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, len(out), nil
}

func (r *fakeSessionRepo) AggregateStats(ctx context.Context, userID string, since *time.Time) (*models.SessionStats, error) {
	return &models.SessionStats{}, nil
}

type fakeProgressRepo struct {
	records map[string]*models.ReadingProgress // key: userID + "/" + bookID
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{records: make(map[string]*models.ReadingProgress)}
}

func progressKey(userID, bookID string) string { return userID + "/" + bookID }

func (r *fakeProgressRepo) Create(ctx context.Context, progress *models.ReadingProgress) error {
	key := progressKey(progress.UserID, progress.BookID)
	if _, ok := r.records[key]; ok {
		return models.ErrProgressExists
	}
	copied := *progress
	r.records[key] = &copied
	return nil
}

func (r *fakeProgressRepo) Get(ctx context.Context, userID, bookID string) (*models.ReadingProgress, error) {
	p, ok := r.records[progressKey(userID, bookID)]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProgressRepo) Update(ctx context.Context, progress *models.ReadingProgress) error {
	key := progressKey(progress.UserID, progress.BookID)
	if _, ok := r.records[key]; !ok {
		return models.ErrNotFound
	}
	copied := *progress
	r.records[key] = &copied
	return nil
}

func (r *fakeProgressRepo) ListByUser(ctx context.Context, userID, status string, limit, offset int) ([]models.ProgressWithBook, int, error) {
	return nil, 0, nil
}

func (r *fakeProgressRepo) CountFinished(ctx context.Context, userID string) (int, error) {
	n := 0
	for _, p := range r.records {
		if p.UserID == userID && p.Status == models.StatusFinished {
			n++
		}
	}
	return n, nil
}

type fakeActivityRepo struct {
	activities []*models.Activity
}

func (r *fakeActivityRepo) Create(ctx context.Context, activity *models.Activity) error {
	r.activities = append(r.activities, activity)
	return nil
}

func (r *fakeActivityRepo) Feed(ctx context.Context, userIDs []string, limit, offset int) ([]models.ActivityResponse, int, error) {
	return nil, 0, nil
}

func (r *fakeActivityRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.ActivityResponse, int, error) {
	return nil, 0, nil
}

type fakeSocialRepo struct {
	edges []models.Follow
}

func (r *fakeSocialRepo) Follow(ctx context.Context, follow *models.Follow) error {
	for _, e := range r.edges {
		if e.FollowerID == follow.FollowerID && e.FolloweeID == follow.FolloweeID {
			return models.ErrAlreadyFollowing
		}
	}
	r.edges = append(r.edges, *follow)
	return nil
}

func (r *fakeSocialRepo) Unfollow(ctx context.Context, followerID, followeeID string) error {
	for i, e := range r.edges {
		if e.FollowerID == followerID && e.FolloweeID == followeeID {
			r.edges = append(r.edges[:i], r.edges[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (r *fakeSocialRepo) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	for _, e := range r.edges {
		if e.FollowerID == followerID && e.FolloweeID == followeeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSocialRepo) Counts(ctx context.Context, userID string) (*models.FollowCounts, error) {
	counts := &models.FollowCounts{}
	for _, e := range r.edges {
		if e.FolloweeID == userID {
			counts.Followers++
		}
		if e.FollowerID == userID {
			counts.Following++
		}
	}
	return counts, nil
}

func (r *fakeSocialRepo) ListFollowers(ctx context.Context, userID string, limit, offset int) ([]models.FollowerEntry, int, error) {
	var out []models.FollowerEntry
	for _, e := range r.edges {
		if e.FolloweeID == userID {
			out = append(out, models.FollowerEntry{UserID: e.FollowerID})
		}
	}
	return out, len(out), nil
}

func (r *fakeSocialRepo) ListFollowing(ctx context.Context, userID string, limit, offset int) ([]models.FollowerEntry, int, error) {
	var out []models.FollowerEntry
	for _, e := range r.edges {
		if e.FollowerID == userID {
			out = append(out, models.FollowerEntry{UserID: e.FolloweeID})
		}
	}
	return out, len(out), nil
}

func (r *fakeSocialRepo) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	for _, e := range r.edges {
		if e.FollowerID == userID {
			ids = append(ids, e.FolloweeID)
		}
	}
	return ids, nil
}

type fakeReviewRepo struct {
	reviews map[string]*models.Review // key: userID + "/" + bookID
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[string]*models.Review)}
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *models.Review) error {
	key := review.UserID + "/" + review.BookID
	if _, ok := r.reviews[key]; ok {
		return models.ErrReviewExists
	}
	copied := *review
	r.reviews[key] = &copied
	return nil
}

func (r *fakeReviewRepo) GetByUserAndBook(ctx context.Context, userID, bookID string) (*models.Review, error) {
	rev, ok := r.reviews[userID+"/"+bookID]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *rev
	return &copied, nil
}

func (r *fakeReviewRepo) ListByBook(ctx context.Context, bookID string, limit, offset int) ([]models.ReviewWithUser, int, error) {
	var out []models.ReviewWithUser
	for _, rev := range r.reviews {
		if rev.BookID == bookID {
			out = append(out, models.ReviewWithUser{Review: *rev})
		}
	}
	return out, len(out), nil
}

func (r *fakeReviewRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.ReviewWithUser, int, error) {
	var out []models.ReviewWithUser
	for _, rev := range r.reviews {
		if rev.UserID == userID {
			out = append(out, models.ReviewWithUser{Review: *rev})
		}
	}
	return out, len(out), nil
}

func (r *fakeReviewRepo) Delete(ctx context.Context, id, userID string) error {
	for key, rev := range r.reviews {
		if rev.ID == id && rev.UserID == userID {
			delete(r.reviews, key)
			return nil
		}
	}
	return models.ErrNotFound
}

func (r *fakeReviewRepo) AverageRating(ctx context.Context, bookID string) (float64, int, error) {
	sum, n := 0, 0
	for _, rev := range r.reviews {
		if rev.BookID == bookID {
			sum += rev.Rating
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), n, nil
}

// recordingNotifier captures every notification a service emits
type recordingNotifier struct {
	types []string
}

func (n *recordingNotifier) Notify(ctx context.Context, userID, notifType, title, message string, data map[string]interface{}) {
	n.types = append(n.types, notifType)
}

func (n *recordingNotifier) sent(notifType string) bool {
	for _, t := range n.types {
		if t == notifType {
			return true
		}
	}
	return false
}
