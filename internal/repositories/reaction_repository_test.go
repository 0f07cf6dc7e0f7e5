package repositories

import (
	"testing"

	"peerprep/interview/internal/models"
)

func TestReactionRepository_InsertExistsDelete(t *testing.T) {
	for _, kind := range []ReactionKind{ReactionLike, ReactionCollect} {
		t.Run(kind.String(), func(t *testing.T) {
			s := newStore(t)
			r := s.Reactions()

			if ok, err := r.Exists(kind, 1, 2); err != nil || ok {
				t.Fatalf("expected no row, got %v (%v)", ok, err)
			}
			if err := r.Insert(kind, 1, 2); err != nil {
				t.Fatalf("Insert: %v", err)
			}
			if err := r.Insert(kind, 1, 2); err == nil {
				t.Fatalf("expected unique violation on duplicate insert")
			}
			if ok, _ := r.Exists(kind, 1, 2); !ok {
				t.Fatalf("expected row to exist")
			}
			if err := r.Delete(kind, 1, 2); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if err := r.Delete(kind, 1, 2); !IsMissing(err) {
				t.Fatalf("expected missing row, got %v", err)
			}
		})
	}
}

func TestReactionKindsAreSeparate(t *testing.T) {
	s := newStore(t)
	if err := s.Reactions().Insert(ReactionLike, 1, 2); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if ok, _ := s.Reactions().Exists(ReactionCollect, 1, 2); ok {
		t.Fatalf("a like must not count as a collect")
	}
	if ReactionLike.CountColumn() != "like_count" || ReactionCollect.CountColumn() != "collect_count" {
		t.Fatalf("unexpected counter columns")
	}
}

func TestModerationEventRepository(t *testing.T) {
	s := newStore(t)
	events := []models.ModerationEvent{
		{QuestionID: 1, OperatorID: 9, FromStatus: models.StatusPending, ToStatus: models.StatusPublished},
		{QuestionID: 2, OperatorID: 9, FromStatus: models.StatusPending, ToStatus: models.StatusRejected},
		{QuestionID: 1, OperatorID: 9, FromStatus: models.StatusPublished, ToStatus: models.StatusRejected},
	}
	if err := s.ModerationEvents().CreateBatch(events); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if err := s.ModerationEvents().CreateBatch(nil); err != nil {
		t.Fatalf("empty batch should be a no-op: %v", err)
	}

	got, err := s.ModerationEvents().ListByQuestion(1)
	if err != nil {
		t.Fatalf("ListByQuestion: %v", err)
	}
	if len(got) != 2 || got[0].ToStatus != models.StatusPublished || got[1].ToStatus != models.StatusRejected {
		t.Fatalf("unexpected history %+v", got)
	}
}
