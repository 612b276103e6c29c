package matching

import (
	"time"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// Component weights for event similarity. Phone identity dominates; time
// proximity covers timestamp jitter between sources.
const (
	weightPhone     = 0.40
	weightTime      = 0.30
	weightType      = 0.15
	weightDirection = 0.15
)

// Component weights for contact similarity. Keys already collapse exact
// phone+name pairs, so this pass only needs to catch name formatting noise on
// a shared number.
const (
	weightContactPhone = 0.60
	weightContactName  = 0.40
)

// timeWindow is the proximity window for full time credit.
const timeWindow = 5 * time.Minute

// EngineConfig contains configuration for the similarity engine
type EngineConfig struct {
	// SimilarityThreshold is the score at or above which two records are
	// considered duplicates (inclusive).
	SimilarityThreshold float64
}

// DefaultConfig returns default engine configuration
func DefaultConfig() EngineConfig {
	return EngineConfig{
		SimilarityThreshold: 0.85,
	}
}

// Engine clusters records by weighted similarity. It runs only on records the
// exact-key pass could not merge, so the O(n²) anchor scan stays bounded.
type Engine struct {
	scorer *Scorer
	config EngineConfig
}

// NewEngine creates a new similarity engine
func NewEngine(config EngineConfig) *Engine {
	return &Engine{
		scorer: NewScorer(),
		config: config,
	}
}

// ScoreEvents computes the weighted similarity of two event records in [0,1].
// Each component counts toward the denominator only when both records carry
// the field; an unparseable timestamp keeps its weight but scores zero.
func (e *Engine) ScoreEvents(a, b *models.EventRecord) float64 {
	// Records owned by different users are never duplicates of each other.
	if a.UserID != nil && b.UserID != nil && *a.UserID != *b.UserID {
		return 0.0
	}

	var matched, total float64

	if a.PhoneNumber != nil && b.PhoneNumber != nil {
		total += weightPhone
		matched += weightPhone * e.scorer.ExactMatch(
			normalizers.NormalizePhone(*a.PhoneNumber),
			normalizers.NormalizePhone(*b.PhoneNumber),
		)
	}
	if a.Timestamp != nil && b.Timestamp != nil {
		total += weightTime
		matched += weightTime * e.scorer.TimeProximity(*a.Timestamp, *b.Timestamp, timeWindow)
	}
	if a.Type != nil && b.Type != nil {
		total += weightType
		matched += weightType * e.scorer.ExactMatch(*a.Type, *b.Type)
	}
	if a.Direction != nil && b.Direction != nil {
		total += weightDirection
		matched += weightDirection * e.scorer.ExactMatch(*a.Direction, *b.Direction)
	}

	if total == 0 {
		return 0.0
	}
	return matched / total
}

// ScoreContacts computes the weighted similarity of two contact records.
func (e *Engine) ScoreContacts(a, b *models.ContactRecord) float64 {
	if a.UserID != nil && b.UserID != nil && *a.UserID != *b.UserID {
		return 0.0
	}

	var matched, total float64

	if a.PhoneNumber != nil && b.PhoneNumber != nil {
		total += weightContactPhone
		matched += weightContactPhone * e.scorer.ExactMatch(
			normalizers.NormalizePhone(*a.PhoneNumber),
			normalizers.NormalizePhone(*b.PhoneNumber),
		)
	}
	if a.Name != nil && b.Name != nil {
		total += weightContactName
		matched += weightContactName * e.scorer.JaroWinkler(
			normalizers.NormalizeName(*a.Name),
			normalizers.NormalizeName(*b.Name),
		)
	}

	if total == 0 {
		return 0.0
	}
	return matched / total
}

// ClusterEvents greedily groups events by similarity against each group's
// anchor. Returns index groups in input order; transitivity is by construction
// (members match the anchor, not necessarily each other).
func (e *Engine) ClusterEvents(records []models.EventRecord) [][]int {
	return e.cluster(len(records), func(i, j int) float64 {
		return e.ScoreEvents(&records[i], &records[j])
	})
}

// ClusterContacts greedily groups contacts by similarity against each group's anchor.
func (e *Engine) ClusterContacts(records []models.ContactRecord) [][]int {
	return e.cluster(len(records), func(i, j int) float64 {
		return e.ScoreContacts(&records[i], &records[j])
	})
}

func (e *Engine) cluster(n int, score func(i, j int) float64) [][]int {
	processed := make([]bool, n)
	groups := make([][]int, 0, n)

	for i := 0; i < n; i++ {
		if processed[i] {
			continue
		}
		processed[i] = true
		group := []int{i}

		for j := i + 1; j < n; j++ {
			if processed[j] {
				continue
			}
			if score(i, j) >= e.config.SimilarityThreshold {
				processed[j] = true
				group = append(group, j)
			}
		}

		groups = append(groups, group)
	}

	return groups
}
