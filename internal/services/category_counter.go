package services

import (
	"sort"

	"peerprep/interview/internal/metrics"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
)

// ReviewDelta is the change to a category's published count when one of
// its questions moves from one status to another. It must be computed from
// the status before it is overwritten.
func ReviewDelta(from, to models.QuestionStatus) int {
	switch {
	case from != models.StatusPublished && to == models.StatusPublished:
		return 1
	case from == models.StatusPublished && to != models.StatusPublished:
		return -1
	}
	return 0
}

// CategoryDeltas accumulates counter changes per category so a batch
// issues one update per touched category.
type CategoryDeltas map[uint]int

func (d CategoryDeltas) Add(categoryID uint, from, to models.QuestionStatus) {
	if delta := ReviewDelta(from, to); delta != 0 {
		d[categoryID] += delta
	}
}

// Apply writes every non-zero delta through repo, in ascending category id
// order. repo must be bound to the transaction that changes the statuses.
func (d CategoryDeltas) Apply(repo *repositories.CategoryRepository) error {
	ids := make([]uint, 0, len(d))
	for id, delta := range d {
		if delta != 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if err := repo.ApplyDelta(id, d[id]); err != nil {
			return err
		}
	}
	return nil
}

func (d CategoryDeltas) observe() {
	for _, delta := range d {
		metrics.ObserveCategoryDelta(delta)
	}
}
