package services

import (
	"sort"
	"time"

	"peerprep/interview/internal/events"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/utils"

	"go.uber.org/zap"
)

// Deps is what every service needs. Publisher and Logger may be nil.
type Deps struct {
	Store     *repositories.Store
	Publisher events.Publisher
	Logger    *zap.Logger
	Now       func() time.Time
}

func (d Deps) normalize() Deps {
	if d.Publisher == nil {
		d.Publisher = events.NopPublisher{}
	}
	d.Logger = utils.OrNop(d.Logger)
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// uniqueIDs drops zero and repeated ids, keeping first-seen order.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func sortedIDs(set map[uint]struct{}) []uint {
	out := make([]uint, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
