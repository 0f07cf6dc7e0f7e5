package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store bundles the repositories over one *gorm.DB, which is either the
// root connection pool or an open transaction.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// WithContext binds ctx to every query issued through the returned store.
func (s *Store) WithContext(ctx context.Context) *Store {
	return &Store{DB: s.DB.WithContext(ctx)}
}

// Transaction runs fn inside one database transaction. fn must only use
// the store it is handed; returning an error rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

// Savepoint runs fn in a nested transaction on a store that is already
// inside Transaction. A failing fn rolls back to the savepoint and leaves
// the outer transaction usable.
func (s *Store) Savepoint(fn func(tx *Store) error) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

func (s *Store) Users() *UserRepository { return &UserRepository{DB: s.DB} }

func (s *Store) Questions() *QuestionRepository { return &QuestionRepository{DB: s.DB} }

func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{DB: s.DB} }

func (s *Store) Reactions() *ReactionRepository { return &ReactionRepository{DB: s.DB} }

func (s *Store) MockInterviews() *MockInterviewRepository {
	return &MockInterviewRepository{DB: s.DB}
}

func (s *Store) ModerationEvents() *ModerationEventRepository {
	return &ModerationEventRepository{DB: s.DB}
}

// forUpdate adds a row lock. SQLite drops the clause and relies on its
// database-level write lock instead.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern builds a substring match for LIKE ... ESCAPE '\'. Wildcards
// typed by the caller match themselves.
func likePattern(keyword string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(keyword))) + "%"
}

// duplicate maps a unique violation to conflict, leaving other errors as
// they are. It relies on gorm.Config.TranslateError.
func duplicate(err, conflict error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict
	}
	return err
}
