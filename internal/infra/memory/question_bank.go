package memory

import (
	"math/rand"
	"sort"
	"time"

	"quisqueya-quiz/internal/domain"
)

// MaxSampleSize is the hard ceiling on questions per round.
const MaxSampleSize = 10

// balancedTargets is the 4 easy / 4 medium / 2 hard distribution used by balanced sampling.
var balancedTargets = []struct {
	level string
	take  int
}{
	{domain.LevelEasy, 4},
	{domain.LevelMedium, 4},
	{domain.LevelHard, 2},
}

// QuestionBank holds the loaded questions. It is read-only after construction; sampling draws
// from rnd, which is not safe for concurrent use, so concurrent callers need their own bank.
type QuestionBank struct {
	questions []domain.Question
	rnd       *rand.Rand
}

// NewQuestionBank wraps loaded questions with a time-seeded random source.
func NewQuestionBank(questions []domain.Question) *QuestionBank {
	return NewQuestionBankWithRand(questions, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewQuestionBankWithRand allows deterministic sampling in tests.
func NewQuestionBankWithRand(questions []domain.Question, rnd *rand.Rand) *QuestionBank {
	return &QuestionBank{
		questions: append([]domain.Question(nil), questions...),
		rnd:       rnd,
	}
}

// Len returns the number of loaded questions.
func (b *QuestionBank) Len() int {
	return len(b.questions)
}

// ListThemes returns the distinct themes, sorted.
func (b *QuestionBank) ListThemes() []string {
	seen := make(map[string]struct{})
	themes := make([]string, 0)
	for _, q := range b.questions {
		if _, ok := seen[q.Theme]; ok {
			continue
		}
		seen[q.Theme] = struct{}{}
		themes = append(themes, q.Theme)
	}
	sort.Strings(themes)
	return themes
}

// Filter returns questions whose theme is in themes and whose level is in levels, in load order.
// An empty slice leaves that dimension unconstrained.
func (b *QuestionBank) Filter(themes, levels []string) []domain.Question {
	themeSet := toSet(themes)
	levelSet := toSet(levels)

	out := make([]domain.Question, 0, len(b.questions))
	for _, q := range b.questions {
		if len(themeSet) > 0 {
			if _, ok := themeSet[q.Theme]; !ok {
				continue
			}
		}
		if len(levelSet) > 0 {
			if _, ok := levelSet[q.Level]; !ok {
				continue
			}
		}
		out = append(out, q)
	}
	return out
}

// SampleQuestions draws up to count questions (never more than MaxSampleSize) without replacement.
// An empty result means no quiz is possible for the given filters.
func (b *QuestionBank) SampleQuestions(count int, themes, levels []string, balanced bool) []domain.Question {
	if count > MaxSampleSize {
		count = MaxSampleSize
	}
	if count < 0 {
		count = 0
	}

	pool := b.Filter(themes, levels)
	if len(pool) == 0 {
		return []domain.Question{}
	}

	if balanced && len(levels) == 0 {
		return b.sampleBalanced(pool, count)
	}

	if len(pool) <= count {
		b.shuffle(pool)
		return pool
	}
	return b.draw(pool, count)
}

func (b *QuestionBank) sampleBalanced(pool []domain.Question, count int) []domain.Question {
	picked := make(map[int]struct{}, MaxSampleSize)
	picks := make([]domain.Question, 0, MaxSampleSize)

	for _, target := range balancedTargets {
		var bucket []int
		for i, q := range pool {
			if domain.SameLevel(q.Level, target.level) {
				bucket = append(bucket, i)
			}
		}
		for _, idx := range b.drawIndexes(bucket, target.take) {
			picked[idx] = struct{}{}
			picks = append(picks, pool[idx])
		}
	}

	// Backfill from any pool member not already picked.
	if len(picks) < count {
		var remaining []int
		for i := range pool {
			if _, ok := picked[i]; !ok {
				remaining = append(remaining, i)
			}
		}
		for _, idx := range b.drawIndexes(remaining, count-len(picks)) {
			picks = append(picks, pool[idx])
		}
	}

	b.shuffle(picks)
	if len(picks) > count {
		picks = picks[:count]
	}
	return picks
}

// draw returns n distinct questions chosen uniformly from pool.
func (b *QuestionBank) draw(pool []domain.Question, n int) []domain.Question {
	all := make([]int, len(pool))
	for i := range all {
		all[i] = i
	}
	out := make([]domain.Question, 0, n)
	for _, idx := range b.drawIndexes(all, n) {
		out = append(out, pool[idx])
	}
	return out
}

// drawIndexes picks min(n, len(indexes)) distinct entries of indexes.
func (b *QuestionBank) drawIndexes(indexes []int, n int) []int {
	if n > len(indexes) {
		n = len(indexes)
	}
	if n <= 0 {
		return nil
	}
	perm := b.rnd.Perm(len(indexes))
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = indexes[perm[i]]
	}
	return out
}

func (b *QuestionBank) shuffle(qs []domain.Question) {
	b.rnd.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
