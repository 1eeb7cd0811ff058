package search

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/domain/search/candidate"
	"github.com/kailas-cloud/docdex/internal/domain/search/result"
)

// Ranker turns raw vector-search candidates into display-ready results.
// Pure transformation over its inputs: no I/O, no shared mutable state, safe
// for concurrent use across independent queries.
type Ranker struct {
	policy Policy
	logger *zap.Logger
}

// NewRanker creates a ranker with the given policy.
func NewRanker(policy Policy, logger *zap.Logger) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{policy: policy, logger: logger}
}

// Rank converts distances to similarity percentages, refines content for
// question-style queries, applies keyword boosts, filters by threshold,
// sorts by similarity descending (stable), drops duplicate content keeping
// the highest-ranked occurrence, and truncates to k.
//
// Deterministic for identical inputs. Candidate metadata passes through to
// results unchanged. An empty query or empty candidate list yields an empty
// result set, not an error; a non-positive k is a contract violation.
func (r *Ranker) Rank(query string, k int, candidates []candidate.Candidate) ([]result.Result, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	intent := r.matchIntent(strings.ToLower(query))
	if intent != nil {
		r.logger.Debug("Query intent rule matched",
			zap.String("rule", intent.rule.Name),
		)
	}

	scored := make([]result.Result, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		similarity := (1 - c.Distance()) * 100
		content := strings.TrimSpace(c.Content())

		if intent != nil {
			content = refineContent(content, intent.keywords)
			similarity += r.boostFor(content)
		}

		if similarity <= r.policy.Threshold {
			continue
		}
		if r.policy.MinWords > 0 && len(strings.Fields(content)) <= r.policy.MinWords {
			continue
		}

		scored = append(scored, result.New(content, similarity, c.Metadata()))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity() > scored[j].Similarity()
	})

	results := dedupeByContent(scored)

	if len(results) > k {
		results = results[:k]
	}

	r.logger.Debug("Ranked candidates",
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// intentMatch carries the fired rule and the sentence keep-list (the extracted
// entity for prefix rules, the rule's keyword list otherwise).
type intentMatch struct {
	rule     IntentRule
	keywords []string
}

func (r *Ranker) matchIntent(lowerQuery string) *intentMatch {
	for _, rule := range r.policy.Intents {
		if rule.QueryPrefix != "" {
			if !strings.HasPrefix(lowerQuery, rule.QueryPrefix) {
				continue
			}
			entity := extractEntity(strings.TrimPrefix(lowerQuery, rule.QueryPrefix))
			if entity == "" {
				continue
			}
			keywords := append([]string{entity}, rule.Keywords...)
			return &intentMatch{rule: rule, keywords: keywords}
		}

		for _, trigger := range rule.QueryTriggers {
			if strings.Contains(lowerQuery, trigger) {
				return &intentMatch{rule: rule, keywords: rule.Keywords}
			}
		}
	}
	return nil
}

// extractEntity normalizes the text following a prefix trigger: surrounding
// whitespace and trailing question/exclamation/period punctuation are not part
// of the entity name.
func extractEntity(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "?!.")
	return strings.TrimSpace(s)
}

// refineContent keeps only the sentence-like units that contain one of the
// keywords (case-insensitive), rejoined with ". " and a trailing period.
// When nothing matches, the full content is returned unchanged: refinement
// must never collapse a result to empty content.
func refineContent(content string, keywords []string) string {
	sentences := strings.Split(content, ". ")

	var kept []string
	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				kept = append(kept, sentence)
				break
			}
		}
	}

	if len(kept) == 0 {
		return content
	}

	joined := strings.Join(kept, ". ") + "."
	// The last kept sentence may already carry its period.
	if strings.HasSuffix(joined, "..") {
		joined = strings.TrimSuffix(joined, ".")
	}
	return joined
}

// boostFor sums the bonuses of every boost rule whose terms appear in the
// content. A rule contributes its bonus once no matter how many of its terms
// match.
func (r *Ranker) boostFor(content string) float64 {
	lower := strings.ToLower(content)

	var bonus float64
	for _, b := range r.policy.Boosts {
		for _, term := range b.Terms {
			if strings.Contains(lower, term) {
				bonus += b.Bonus
				break
			}
		}
	}
	return bonus
}

// dedupeByContent keeps the first occurrence of each content hash. Input is
// already sorted by similarity descending, so the kept occurrence is always
// the highest-scoring one.
func dedupeByContent(results []result.Result) []result.Result {
	seen := make(map[[sha256.Size]byte]struct{}, len(results))
	deduped := make([]result.Result, 0, len(results))

	for i := range results {
		key := sha256.Sum256([]byte(results[i].Content()))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, results[i])
	}
	return deduped
}
