package repositories

import (
	"testing"
	"time"

	"peerprep/interview/internal/models"
)

func TestMockInterviewRepository_CreateAndComplete(t *testing.T) {
	s := newStore(t)
	session := &models.MockInterview{
		UserID:         7,
		RequestedCount: 2,
		Items: []models.MockInterviewItem{
			{QuestionID: 11, Position: 1},
			{QuestionID: 10, Position: 0},
		},
	}
	if err := s.MockInterviews().Create(session); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.MockInterviews().GetByID(session.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Items) != 2 || got.Items[0].QuestionID != 10 {
		t.Fatalf("expected items in position order, got %+v", got.Items)
	}

	correct := true
	ms := int64(1200)
	item := got.Items[0]
	item.UserAnswer, item.IsCorrect, item.AnswerTimeMs = "answer", &correct, &ms
	if err := s.MockInterviews().SaveItem(&item); err != nil {
		t.Fatalf("SaveItem: %v", err)
	}

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	done, err := s.MockInterviews().Complete(session.ID, 50, 1200, now)
	if err != nil || !done {
		t.Fatalf("expected completion, got %v (%v)", done, err)
	}
	done, err = s.MockInterviews().Complete(session.ID, 100, 0, now)
	if err != nil || done {
		t.Fatalf("second completion must not apply, got %v (%v)", done, err)
	}

	got, _ = s.MockInterviews().GetForUpdate(session.ID)
	if got.Status != models.SessionCompleted || got.Score != 50 || got.DurationMs != 1200 {
		t.Fatalf("unexpected session %+v", got)
	}
	if got.Items[0].IsCorrect == nil || !*got.Items[0].IsCorrect || got.Items[0].UserAnswer != "answer" {
		t.Fatalf("item not saved: %+v", got.Items[0])
	}
	if _, err := s.MockInterviews().GetByID(999); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestMockInterviewRepository_HistoryNewestFirst(t *testing.T) {
	s := newStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, user := range []uint{1, 1, 2, 1} {
		m := &models.MockInterview{UserID: user, RequestedCount: 1, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := s.MockInterviews().Create(m); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, total, err := s.MockInterviews().History(1, models.PaginationParams{Page: 1, Size: 2})
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if total != 3 || len(got) != 2 {
		t.Fatalf("expected 2 of 3, got %d of %d", len(got), total)
	}
	if !got[0].CreatedAt.After(got[1].CreatedAt) {
		t.Fatalf("expected newest first, got %v then %v", got[0].CreatedAt, got[1].CreatedAt)
	}
}
