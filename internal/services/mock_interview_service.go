package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"peerprep/interview/internal/apperrors"
	"peerprep/interview/internal/auth"
	"peerprep/interview/internal/events"
	"peerprep/interview/internal/metrics"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"

	"go.uber.org/zap"
)

// AnswerGrader decides whether an answer to a question is correct.
type AnswerGrader interface {
	Grade(q models.Question, answer string) bool
}

type GraderFunc func(q models.Question, answer string) bool

func (f GraderFunc) Grade(q models.Question, answer string) bool { return f(q, answer) }

// NonEmptyGrader accepts any answer that is not blank.
var NonEmptyGrader = GraderFunc(func(_ models.Question, answer string) bool {
	return strings.TrimSpace(answer) != ""
})

type MockInterviewService struct {
	Deps
	Grader       AnswerGrader
	MaxQuestions int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockInterviewService wires the engine. A nil grader means
// NonEmptyGrader, a nil rng is seeded from the clock.
func NewMockInterviewService(deps Deps, grader AnswerGrader, maxQuestions int, rng *rand.Rand) *MockInterviewService {
	if grader == nil {
		grader = NonEmptyGrader
	}
	if maxQuestions <= 0 {
		maxQuestions = 100
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MockInterviewService{Deps: deps.normalize(), Grader: grader, MaxQuestions: maxQuestions, rng: rng}
}

type CreateMockInterviewInput struct {
	CategoryIDs   []uint `json:"categoryIds"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"questionCount"`
}

// AnswerInput is one submitted answer, keyed by session item id.
type AnswerInput struct {
	ItemID       uint   `json:"itemId"`
	UserAnswer   string `json:"userAnswer"`
	AnswerTimeMs *int64 `json:"answerTime"`
}

// SessionQuestion pairs an item with the question it was sampled from.
type SessionQuestion struct {
	ItemID       uint            `json:"itemId"`
	Position     int             `json:"position"`
	Question     models.Question `json:"question"`
	UserAnswer   string          `json:"userAnswer,omitempty"`
	IsCorrect    *bool           `json:"isCorrect,omitempty"`
	AnswerTimeMs *int64          `json:"answerTime,omitempty"`
}

// Create samples QuestionCount distinct PUBLISHED questions matching the
// filters and stores them as a new IN_PROGRESS session.
func (s *MockInterviewService) Create(ctx context.Context, p *auth.Principal, in CreateMockInterviewInput) (*models.MockInterview, error) {
	if err := auth.Check(p, auth.OpCreateMockInterview); err != nil {
		return nil, err
	}
	if in.QuestionCount < 1 || in.QuestionCount > s.MaxQuestions {
		return nil, apperrors.Validation(fmt.Sprintf("questionCount must be between 1 and %d", s.MaxQuestions))
	}
	difficulty, err := difficultyFilter(in.Difficulty)
	if err != nil {
		return nil, err
	}
	categoryIDs := uniqueIDs(in.CategoryIDs)
	sort.Slice(categoryIDs, func(i, j int) bool { return categoryIDs[i] < categoryIDs[j] })

	session := &models.MockInterview{
		UserID:         p.UserID,
		CategoryIDs:    joinIDs(categoryIDs),
		Difficulty:     string(difficulty),
		RequestedCount: in.QuestionCount,
		Status:         models.SessionInProgress,
	}
	err = s.Store.Transaction(ctx, func(tx *repositories.Store) error {
		pool, err := tx.Questions().Pool(categoryIDs, difficulty)
		if err != nil {
			return err
		}
		if len(pool) < in.QuestionCount {
			return apperrors.ErrInsufficientQuestions.WithMessage(
				fmt.Sprintf("requested %d questions but only %d match", in.QuestionCount, len(pool)))
		}
		for i, idx := range s.sample(len(pool), in.QuestionCount) {
			session.Items = append(session.Items, models.MockInterviewItem{QuestionID: pool[idx].ID, Position: i})
		}
		return tx.MockInterviews().Create(session)
	})
	if err != nil {
		return nil, err
	}
	metrics.ObserveMockInterview("created")
	s.Logger.Info("mock interview created", zap.Uint("session", session.ID), zap.Uint("user", p.UserID), zap.Int("questions", in.QuestionCount))
	return session, nil
}

// sample picks k distinct indices from [0, n) with a partial Fisher-Yates
// shuffle.
func (s *MockInterviewService) sample(n, k int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < k; i++ {
		j := i + s.rng.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}

// Submit grades the answers and completes the session. Answers for items
// outside the session are ignored, as are repeats of an item already
// answered in the same call. The score is taken over the requested count,
// so unanswered items count as wrong.
func (s *MockInterviewService) Submit(ctx context.Context, p *auth.Principal, sessionID uint, answers []AnswerInput) (*models.MockInterview, error) {
	if err := auth.Check(p, auth.OpSubmitMockInterview); err != nil {
		return nil, err
	}
	var score int
	var duration int64
	err := s.Store.Transaction(ctx, func(tx *repositories.Store) error {
		session, err := tx.MockInterviews().GetForUpdate(sessionID)
		if err != nil {
			return err
		}
		if session.UserID != p.UserID {
			return repositories.ErrSessionNotFound
		}
		if session.Status == models.SessionCompleted {
			return apperrors.ErrAlreadyCompleted
		}

		items := make(map[uint]*models.MockInterviewItem, len(session.Items))
		questionIDs := make([]uint, 0, len(session.Items))
		for i := range session.Items {
			items[session.Items[i].ID] = &session.Items[i]
			questionIDs = append(questionIDs, session.Items[i].QuestionID)
		}
		questions, err := tx.Questions().GetByIDs(questionIDs)
		if err != nil {
			return err
		}

		correct := 0
		answered := make(map[uint]bool, len(answers))
		for _, a := range answers {
			item, ok := items[a.ItemID]
			if !ok || answered[a.ItemID] {
				continue
			}
			q, ok := questions[item.QuestionID]
			if !ok {
				continue
			}
			answered[a.ItemID] = true

			isCorrect := s.Grader.Grade(q, a.UserAnswer)
			item.UserAnswer = a.UserAnswer
			item.IsCorrect = &isCorrect
			item.AnswerTimeMs = nonNegative(a.AnswerTimeMs)
			if err := tx.MockInterviews().SaveItem(item); err != nil {
				return err
			}
			if isCorrect {
				correct++
			}
		}
		for _, item := range session.Items {
			if item.AnswerTimeMs != nil {
				duration += *item.AnswerTimeMs
			}
		}

		score = Score(correct, session.RequestedCount)
		done, err := tx.MockInterviews().Complete(sessionID, score, duration, s.Now())
		if err != nil {
			return err
		}
		if !done {
			return apperrors.ErrAlreadyCompleted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ObserveMockInterview("completed")
	s.Logger.Info("mock interview submitted", zap.Uint("session", sessionID), zap.Uint("user", p.UserID), zap.Int("score", score))
	_ = s.Publisher.Publish(ctx, events.ChannelMockInterviewCompleted, events.MockInterviewCompleted{
		SessionID:  sessionID,
		UserID:     p.UserID,
		Score:      score,
		DurationMs: duration,
	})
	return s.Store.WithContext(ctx).MockInterviews().GetByID(sessionID)
}

// Score is round(correct*100/requested).
func Score(correct, requested int) int {
	if requested <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) * 100 / float64(requested)))
}

func (s *MockInterviewService) Get(ctx context.Context, p *auth.Principal, sessionID uint) (*models.MockInterview, error) {
	if err := auth.Check(p, auth.OpGetMockInterview); err != nil {
		return nil, err
	}
	return s.owned(ctx, p, sessionID)
}

// Questions lists the session's questions in sampling order. Analyses stay
// hidden until the session is completed.
func (s *MockInterviewService) Questions(ctx context.Context, p *auth.Principal, sessionID uint) ([]SessionQuestion, error) {
	if err := auth.Check(p, auth.OpMockInterviewQuestions); err != nil {
		return nil, err
	}
	session, err := s.owned(ctx, p, sessionID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(session.Items))
	for _, item := range session.Items {
		ids = append(ids, item.QuestionID)
	}
	questions, err := s.Store.WithContext(ctx).Questions().GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	out := make([]SessionQuestion, 0, len(session.Items))
	for _, item := range session.Items {
		q, ok := questions[item.QuestionID]
		if !ok {
			continue
		}
		if session.Status != models.SessionCompleted {
			q.Analysis = ""
		}
		out = append(out, SessionQuestion{
			ItemID:       item.ID,
			Position:     item.Position,
			Question:     q,
			UserAnswer:   item.UserAnswer,
			IsCorrect:    item.IsCorrect,
			AnswerTimeMs: item.AnswerTimeMs,
		})
	}
	return out, nil
}

// History lists the caller's sessions, newest first.
func (s *MockInterviewService) History(ctx context.Context, p *auth.Principal, params models.PaginationParams) (models.Page[models.MockInterview], error) {
	if err := auth.Check(p, auth.OpMockInterviewHistory); err != nil {
		return models.Page[models.MockInterview]{}, err
	}
	params = params.Normalize()
	sessions, total, err := s.Store.WithContext(ctx).MockInterviews().History(p.UserID, params)
	if err != nil {
		return models.Page[models.MockInterview]{}, err
	}
	return models.NewPage(sessions, int(total), params), nil
}

// owned loads a session and hides it from anyone but its owner.
func (s *MockInterviewService) owned(ctx context.Context, p *auth.Principal, sessionID uint) (*models.MockInterview, error) {
	session, err := s.Store.WithContext(ctx).MockInterviews().GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != p.UserID {
		return nil, repositories.ErrSessionNotFound
	}
	return session, nil
}

// difficultyFilter maps "" and "ALL" to no filter.
func difficultyFilter(raw string) (models.Difficulty, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "ALL") {
		return "", nil
	}
	d, ok := models.ParseDifficulty(raw)
	if !ok {
		return "", apperrors.Validation("difficulty must be EASY, MEDIUM, HARD or ALL")
	}
	return d, nil
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

func nonNegative(ms *int64) *int64 {
	if ms == nil {
		return nil
	}
	v := *ms
	if v < 0 {
		v = 0
	}
	return &v
}
