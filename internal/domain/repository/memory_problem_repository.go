package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Vivek290100/CodeMaster/internal/common"
	"github.com/Vivek290100/CodeMaster/internal/domain/model"
)

type memoryProblemRepository struct {
	mu       sync.RWMutex
	problems map[string]model.Problem
}

// NewMemoryProblemRepository returns a process-local store. Problems are
// copied in and out so callers never share slices with the store.
func NewMemoryProblemRepository() ProblemRepository {
	return &memoryProblemRepository{problems: make(map[string]model.Problem)}
}

func (r *memoryProblemRepository) Create(_ context.Context, p *model.Problem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.problems[p.ID]; exists {
		return common.ErrConflict
	}
	for _, existing := range r.problems {
		if existing.Slug == p.Slug {
			return common.ErrConflict
		}
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	r.problems[p.ID] = cloneProblem(*p)
	return nil
}

func (r *memoryProblemRepository) FindByID(_ context.Context, id string) (*model.Problem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.problems[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := cloneProblem(p)
	return &out, nil
}

func (r *memoryProblemRepository) FindBySlug(_ context.Context, slug string) (*model.Problem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.problems {
		if p.Slug == slug {
			out := cloneProblem(p)
			return &out, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memoryProblemRepository) FindAll(_ context.Context) ([]model.Problem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	problems := make([]model.Problem, 0, len(r.problems))
	for _, p := range r.problems {
		problems = append(problems, cloneProblem(p))
	}
	sort.Slice(problems, func(i, j int) bool {
		if problems[i].CreatedAt.Equal(problems[j].CreatedAt) {
			return problems[i].ID < problems[j].ID
		}
		return problems[i].CreatedAt.After(problems[j].CreatedAt)
	})
	return problems, nil
}

func (r *memoryProblemRepository) UpdateBoilerplates(_ context.Context, id string, boilerplates []model.Boilerplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.problems[id]
	if !ok {
		return common.ErrNotFound
	}
	p.Boilerplates = append([]model.Boilerplate(nil), boilerplates...)
	p.UpdatedAt = time.Now().UTC()
	r.problems[id] = p
	return nil
}

func cloneProblem(p model.Problem) model.Problem {
	p.Tags = append([]string(nil), p.Tags...)
	p.InputVariables = append([]model.InputVariable(nil), p.InputVariables...)
	p.SupportedLanguages = append([]model.Language(nil), p.SupportedLanguages...)
	p.Boilerplates = append([]model.Boilerplate(nil), p.Boilerplates...)
	tests := make([]model.TestCase, len(p.TestCases))
	for i, tc := range p.TestCases {
		inputs := make(map[string]string, len(tc.Inputs))
		for k, v := range tc.Inputs {
			inputs[k] = v
		}
		tc.Inputs = inputs
		tests[i] = tc
	}
	p.TestCases = tests
	return p
}
