package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Vivek290100/CodeMaster/internal/coerce"
	"github.com/Vivek290100/CodeMaster/internal/common"
	"github.com/Vivek290100/CodeMaster/internal/domain/model"
)

type ProblemRepository interface {
	Create(ctx context.Context, problem *model.Problem) error
	FindByID(ctx context.Context, id string) (*model.Problem, error)
	FindBySlug(ctx context.Context, slug string) (*model.Problem, error)
	FindAll(ctx context.Context) ([]model.Problem, error)
	UpdateBoilerplates(ctx context.Context, id string, boilerplates []model.Boilerplate) error
}

type pgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) ProblemRepository {
	return &pgProblemRepository{db: db}
}

const problemColumns = `id, title, slug, description, difficulty, tags, input_variables, output_type,
	test_cases, supported_languages, boilerplates, time_limit_ms, memory_limit_mb, created_by,
	created_at, updated_at`

// problemRow holds the JSONB columns of a problem before decoding.
type problemRow struct {
	tags, vars, tests, langs, boilerplates []byte
	outputType                             string
}

func (r *pgProblemRepository) Create(ctx context.Context, p *model.Problem) error {
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Create marshal tags: %w", err)
	}
	vars, err := json.Marshal(p.InputVariables)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Create marshal input variables: %w", err)
	}
	tests, err := json.Marshal(p.TestCases)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Create marshal test cases: %w", err)
	}
	langs, err := json.Marshal(p.SupportedLanguages)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Create marshal languages: %w", err)
	}
	boilerplates, err := json.Marshal(p.Boilerplates)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Create marshal boilerplates: %w", err)
	}

	query := `INSERT INTO problems (id, title, slug, description, difficulty, tags, input_variables, output_type,
	          test_cases, supported_languages, boilerplates, time_limit_ms, memory_limit_mb, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	          RETURNING created_at, updated_at`
	err = r.db.QueryRowContext(ctx, query,
		p.ID, p.Title, p.Slug, p.Description, p.Difficulty, tags, vars, p.OutputType.String(),
		tests, langs, boilerplates, p.TimeLimitMs, p.MemoryLimitMb, p.CreatedByID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("problem with this title already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgProblemRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProblemRepository) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	p, err := r.findOne(ctx, `SELECT `+problemColumns+` FROM problems WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.FindByID: %w", err)
	}
	return p, nil
}

func (r *pgProblemRepository) FindBySlug(ctx context.Context, slug string) (*model.Problem, error) {
	p, err := r.findOne(ctx, `SELECT `+problemColumns+` FROM problems WHERE slug = $1`, slug)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.FindBySlug: %w", err)
	}
	return p, nil
}

func (r *pgProblemRepository) findOne(ctx context.Context, query string, arg any) (*model.Problem, error) {
	var p model.Problem
	var row problemRow
	err := r.db.QueryRowContext(ctx, query, arg).Scan(scanTargets(&p, &row)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	if err := row.decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pgProblemRepository) FindAll(ctx context.Context) ([]model.Problem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+problemColumns+` FROM problems ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.FindAll query: %w", err)
	}
	defer rows.Close()

	problems := []model.Problem{}
	for rows.Next() {
		var p model.Problem
		var row problemRow
		if err := rows.Scan(scanTargets(&p, &row)...); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.FindAll scan: %w", err)
		}
		if err := row.decode(&p); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.FindAll: %w", err)
		}
		problems = append(problems, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.FindAll rows.Err: %w", err)
	}
	return problems, nil
}

func (r *pgProblemRepository) UpdateBoilerplates(ctx context.Context, id string, boilerplates []model.Boilerplate) error {
	data, err := json.Marshal(boilerplates)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.UpdateBoilerplates marshal: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE problems SET boilerplates = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, data, id)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.UpdateBoilerplates: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func scanTargets(p *model.Problem, row *problemRow) []any {
	return []any{
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.Difficulty, &row.tags, &row.vars, &row.outputType,
		&row.tests, &row.langs, &row.boilerplates, &p.TimeLimitMs, &p.MemoryLimitMb, &p.CreatedByID,
		&p.CreatedAt, &p.UpdatedAt,
	}
}

func (row *problemRow) decode(p *model.Problem) error {
	var err error
	if p.OutputType, err = coerce.ParseType(row.outputType); err != nil {
		return fmt.Errorf("decode output type: %w", err)
	}
	fields := []struct {
		name string
		data []byte
		dst  any
	}{
		{"tags", row.tags, &p.Tags},
		{"input_variables", row.vars, &p.InputVariables},
		{"test_cases", row.tests, &p.TestCases},
		{"supported_languages", row.langs, &p.SupportedLanguages},
		{"boilerplates", row.boilerplates, &p.Boilerplates},
	}
	for _, f := range fields {
		if len(f.data) == 0 {
			continue
		}
		if err := json.Unmarshal(f.data, f.dst); err != nil {
			return fmt.Errorf("decode %s: %w", f.name, err)
		}
	}
	return nil
}
