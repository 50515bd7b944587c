package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Vivek290100/CodeMaster/internal/coerce"
	"github.com/Vivek290100/CodeMaster/internal/common"
	"github.com/Vivek290100/CodeMaster/internal/domain/model"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProblem(id, slug string) *model.Problem {
	return &model.Problem{
		ID:    id,
		Title: "Sum of numbers",
		Slug:  slug,
		InputVariables: []model.InputVariable{
			{Name: "nums", Type: coerce.Integer, IsArray: true},
		},
		OutputType:         coerce.Scalar(coerce.Integer),
		SupportedLanguages: []model.Language{model.LanguagePython},
		TestCases: []model.TestCase{
			{Inputs: map[string]string{"nums": "1, 2, 3"}, ExpectedOutput: "6", IsSample: true},
		},
	}
}

func TestMemoryProblemRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProblemRepository()

	p := newProblem("p1", "sum-of-numbers")
	require.NoError(t, repo.Create(ctx, p))
	assert.False(t, p.CreatedAt.IsZero())

	got, err := repo.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "sum-of-numbers", got.Slug)

	// Mutating a returned problem must not leak into the store.
	got.TestCases[0].Inputs["nums"] = "9"
	again, err := repo.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "1, 2, 3", again.TestCases[0].Inputs["nums"])

	bySlug, err := repo.FindBySlug(ctx, "sum-of-numbers")
	require.NoError(t, err)
	assert.Equal(t, "p1", bySlug.ID)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = repo.FindBySlug(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, repo.Create(ctx, newProblem("p2", "sum-of-numbers")), common.ErrConflict)
	assert.ErrorIs(t, repo.Create(ctx, newProblem("p1", "other")), common.ErrConflict)
}

func TestMemoryProblemRepositoryFindAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProblemRepository()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	require.NoError(t, repo.Create(ctx, newProblem("a", "a")))
	time.Sleep(time.Millisecond)
	require.NoError(t, repo.Create(ctx, newProblem("b", "b")))

	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID)
	assert.Equal(t, "a", all[1].ID)
}

func TestMemoryProblemRepositoryUpdateBoilerplates(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProblemRepository()
	require.NoError(t, repo.Create(ctx, newProblem("p1", "p1")))

	bps := []model.Boilerplate{{Language: model.LanguagePython, Version: "3.10.0", Code: "def solution(nums):"}}
	require.NoError(t, repo.UpdateBoilerplates(ctx, "p1", bps))

	got, err := repo.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, bps, got.Boilerplates)

	assert.ErrorIs(t, repo.UpdateBoilerplates(ctx, "missing", bps), common.ErrNotFound)
}

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	u := &model.User{ID: "u1", Username: "ada", Email: "ada@example.com", Role: model.RoleAuthor}
	require.NoError(t, repo.Create(ctx, u))

	byEmail, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)

	byName, err := repo.FindByUsername(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAuthor, byName.Role)

	_, err = repo.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)

	dup := &model.User{ID: "u2", Username: "ada", Email: "other@example.com"}
	assert.ErrorIs(t, repo.Create(ctx, dup), common.ErrConflict)
}

func TestRedisExecutionJobRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	ctx := context.Background()
	repo := NewRedisExecutionJobRepository(rdb, time.Hour)

	job := &model.ExecutionJob{
		ID:      "job-1",
		Status:  model.JobStatusQueued,
		Request: model.ExecuteRequest{ProblemID: "p1", Language: model.LanguagePython, Version: "3.10.0", Code: "x"},
	}
	require.NoError(t, repo.Save(ctx, job))
	assert.True(t, mr.Exists(ExecutionJobKey("job-1")))
	assert.Equal(t, time.Hour, mr.TTL(ExecutionJobKey("job-1")))

	got, err := repo.FindByID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusQueued, got.Status)
	assert.Equal(t, model.LanguagePython, got.Request.Language)

	_, err = repo.FindByID(ctx, "job-2")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
