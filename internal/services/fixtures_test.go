package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"peerprep/interview/internal/auth"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/testhelpers"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type published struct {
	Channel string
	Payload any
}

// recordingPublisher keeps every event in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{Channel: channel, Payload: payload})
	return nil
}

func (p *recordingPublisher) on(channel string) []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []published
	for _, e := range p.events {
		if e.Channel == channel {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	t   *testing.T
	db  *gorm.DB
	pub *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{t: t, db: testhelpers.SetupTestDB(t), pub: &recordingPublisher{}}
}

func (f *fixture) deps() Deps {
	return Deps{
		Store:     repositories.NewStore(f.db),
		Publisher: f.pub,
		Now:       func() time.Time { return fixedNow },
	}
}

func (f *fixture) user(username string, role models.Role) *models.User {
	f.t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
		Status:       models.UserActive,
	}
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}

func (f *fixture) category(name string, count int) *models.Category {
	f.t.Helper()
	c := &models.Category{Name: name, Slug: name, QuestionCount: count}
	require.NoError(f.t, f.db.Create(c).Error)
	return c
}

func (f *fixture) question(title string, categoryID, authorID uint, status models.QuestionStatus, difficulty models.Difficulty) *models.Question {
	f.t.Helper()
	q := &models.Question{
		Title:      title,
		Difficulty: difficulty,
		CategoryID: categoryID,
		AuthorID:   authorID,
		Status:     status,
	}
	require.NoError(f.t, f.db.Create(q).Error)
	return q
}

func (f *fixture) reload(q *models.Question) *models.Question {
	f.t.Helper()
	var out models.Question
	require.NoError(f.t, f.db.First(&out, q.ID).Error)
	return &out
}

func (f *fixture) count(categoryID uint) int {
	f.t.Helper()
	var c models.Category
	require.NoError(f.t, f.db.First(&c, categoryID).Error)
	return c.QuestionCount
}

// publishedCount counts PUBLISHED rows directly, bypassing the counter.
func (f *fixture) publishedCount(categoryID uint) int {
	f.t.Helper()
	n, err := repositories.NewStore(f.db).Questions().CountPublished(categoryID)
	require.NoError(f.t, err)
	return int(n)
}

func principalOf(u *models.User) *auth.Principal {
	return &auth.Principal{UserID: u.ID, Username: u.Username, Role: u.Role, Status: u.Status}
}

// roundTrip re-encodes v as JSON-shaped data for loose assertions.
func roundTrip(t *testing.T, v any) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}
