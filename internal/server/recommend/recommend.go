// Package recommend holds the named recommendation functions the backend
// runs for each assessment kind. Every function scores the listing
// catalogue by tag overlap with the answers; results are deterministic.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/dmitrijs2005/smehub/internal/assessment"
)

// Limit is the maximum number of recommendations a function returns.
const Limit = 5

var ErrUnknownFunction = errors.New("unknown recommendation function")

// Func turns an answers payload into a ranked recommendation list.
type Func func(ctx context.Context, answers assessment.Answers) (assessment.Recommendations, error)

// Registry maps function names to implementations.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry returns a registry with the built-in function of every kind.
func NewRegistry() *Registry {
	r := &Registry{funcs: map[string]Func{}}
	for _, spec := range assessment.All() {
		r.Register(spec.RecommendFunction, builtin(spec.Kind))
	}
	return r
}

func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
}

// Compute runs the function registered under name.
func (r *Registry) Compute(ctx context.Context, name string, answers assessment.Answers) (assessment.Recommendations, error) {
	r.mu.RLock()
	fn, ok := r.funcs[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fn(ctx, answers)
}

// rule describes which answers feed the tag set and which listing types a
// kind is matched against.
type rule struct {
	tagKeys []string
	targets []string
}

var rules = map[assessment.Kind]rule{
	assessment.KindSME: {
		tagKeys: []string{"sector", "skills_needed"},
		targets: []string{TypeFunder, TypeInvestor, TypeProgramme, TypeFreelancer},
	},
	assessment.KindDonor: {
		tagKeys: []string{"focus_sectors"},
		targets: []string{TypeSME, TypeProgramme},
	},
	assessment.KindInvestor: {
		tagKeys: []string{"focus_sectors", "instrument"},
		targets: []string{TypeSME},
	},
	assessment.KindProfessional: {
		tagKeys: []string{"skills", "sectors"},
		targets: []string{TypeSME},
	},
}

func builtin(kind assessment.Kind) Func {
	rl := rules[kind]
	return func(_ context.Context, answers assessment.Answers) (assessment.Recommendations, error) {
		tags := map[string]bool{}
		for _, key := range rl.tagKeys {
			for _, v := range answers.Strings(key) {
				tags[v] = true
			}
		}
		return rank(catalogue, rl.targets, tags, strings.ToLower(answers.Text("stage"))), nil
	}
}

func rank(listings []Listing, targets []string, tags map[string]bool, stage string) assessment.Recommendations {
	wanted := map[string]bool{}
	for _, t := range targets {
		wanted[t] = true
	}

	var out assessment.Recommendations
	for _, l := range listings {
		if !wanted[l.Type] {
			continue
		}
		var matched []string
		for _, tag := range l.Tags {
			if tags[tag] {
				matched = append(matched, tag)
			}
		}
		if len(matched) == 0 {
			continue
		}
		score := float64(len(matched))
		if stage != "" && slices.Contains(l.Stages, stage) {
			score += 0.5
			matched = append(matched, stage+" stage")
		}
		out = append(out, assessment.Recommendation{
			TargetID:   l.ID,
			TargetType: l.Type,
			Title:      l.Title,
			Score:      score,
			Reason:     "matches " + strings.Join(matched, ", "),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].TargetID < out[j].TargetID
	})
	if len(out) > Limit {
		out = out[:Limit]
	}
	return out
}
