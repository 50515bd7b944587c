package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Vivek290100/CodeMaster/internal/boilerplate"
	"github.com/Vivek290100/CodeMaster/internal/coerce"
	"github.com/Vivek290100/CodeMaster/internal/common"
	"github.com/Vivek290100/CodeMaster/internal/domain/model"
	"github.com/Vivek290100/CodeMaster/internal/domain/repository"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

const (
	minTitleLen       = 5
	maxTitleLen       = 100
	minDescriptionLen = 10
	maxTagLen         = 20
	maxInputVariables = 10
	maxTestCases      = 20
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// VersionCatalog resolves the runtime version used for a language.
type VersionCatalog interface {
	Version(lang model.Language) string
}

type ProblemService struct {
	problemRepo repository.ProblemRepository
	versions    VersionCatalog
	log         *zap.Logger
}

func NewProblemService(problemRepo repository.ProblemRepository, versions VersionCatalog, log *zap.Logger) *ProblemService {
	return &ProblemService{
		problemRepo: problemRepo,
		versions:    versions,
		log:         log,
	}
}

type CreateProblemRequest struct {
	Title              string                  `json:"title"`
	Description        string                  `json:"description"`
	Difficulty         model.ProblemDifficulty `json:"difficulty"`
	Tags               []string                `json:"tags"`
	InputVariables     []model.InputVariable   `json:"inputVariables"`
	OutputType         coerce.Type             `json:"outputType"`
	TestCases          []model.TestCase        `json:"testCases"`
	SupportedLanguages []model.Language        `json:"supportedLanguages"`
	TimeLimitMs        *int                    `json:"timeLimit,omitempty"`
	MemoryLimitMb      *int                    `json:"memoryLimit,omitempty"`
}

func (s *ProblemService) CreateProblem(ctx context.Context, authorID string, req CreateProblemRequest) (*model.Problem, error) {
	problem, err := buildProblem(req)
	if err != nil {
		return nil, err
	}
	problem.ID = uuid.NewString()
	if authorID != "" {
		problem.CreatedByID = &authorID
	}

	if problem.Boilerplates, err = s.generateBoilerplates(problem); err != nil {
		return nil, err
	}

	if err := s.problemRepo.Create(ctx, problem); err != nil {
		return nil, fmt.Errorf("failed to create problem: %w", err)
	}

	s.log.Info("problem created",
		zap.String("problem_id", problem.ID),
		zap.String("slug", problem.Slug),
		zap.Int("test_cases", len(problem.TestCases)),
	)
	return problem, nil
}

// buildProblem validates req and applies defaults. The returned problem has
// no id yet.
func buildProblem(req CreateProblemRequest) (*model.Problem, error) {
	title := strings.TrimSpace(req.Title)
	if n := utf8.RuneCountInString(title); n < minTitleLen || n > maxTitleLen {
		return nil, common.Validationf("title must be between %d and %d characters", minTitleLen, maxTitleLen)
	}
	description := strings.TrimSpace(req.Description)
	if utf8.RuneCountInString(description) < minDescriptionLen {
		return nil, common.Validationf("description must be at least %d characters", minDescriptionLen)
	}
	if !req.Difficulty.Valid() {
		return nil, common.Validationf("difficulty must be one of Easy, Medium or Hard")
	}

	tags := make([]string, 0, len(req.Tags))
	for _, tag := range req.Tags {
		tag = strings.TrimSpace(tag)
		if n := utf8.RuneCountInString(tag); n == 0 || n > maxTagLen {
			return nil, common.Validationf("tags must be between 1 and %d characters", maxTagLen)
		}
		tags = append(tags, tag)
	}

	varNames, err := validateInputVariables(req.InputVariables)
	if err != nil {
		return nil, err
	}
	if err := req.OutputType.Validate(); err != nil {
		return nil, common.Validationf("outputType: %v", err)
	}
	if err := validateTestCases(req.TestCases, varNames); err != nil {
		return nil, err
	}

	languages, err := normalizeLanguages(req.SupportedLanguages)
	if err != nil {
		return nil, err
	}

	timeLimit := model.DefaultTimeLimitMs
	if req.TimeLimitMs != nil {
		timeLimit = *req.TimeLimitMs
	}
	if timeLimit < model.MinTimeLimitMs || timeLimit > model.MaxTimeLimitMs {
		return nil, common.Validationf("timeLimit must be between %d and %d ms", model.MinTimeLimitMs, model.MaxTimeLimitMs)
	}
	memoryLimit := model.DefaultMemoryLimitMb
	if req.MemoryLimitMb != nil {
		memoryLimit = *req.MemoryLimitMb
	}
	if memoryLimit != model.DefaultMemoryLimitMb && (memoryLimit < 1 || memoryLimit > model.MaxMemoryLimitMb) {
		return nil, common.Validationf("memoryLimit must be -1 or between 1 and %d MB", model.MaxMemoryLimitMb)
	}

	return &model.Problem{
		Title:              title,
		Slug:               slug.Make(title),
		Description:        description,
		Difficulty:         req.Difficulty,
		Tags:               tags,
		InputVariables:     req.InputVariables,
		OutputType:         req.OutputType,
		TestCases:          req.TestCases,
		SupportedLanguages: languages,
		TimeLimitMs:        timeLimit,
		MemoryLimitMb:      memoryLimit,
	}, nil
}

func validateInputVariables(vars []model.InputVariable) (mapset.Set[string], error) {
	if len(vars) == 0 || len(vars) > maxInputVariables {
		return nil, common.Validationf("between 1 and %d input variables are required", maxInputVariables)
	}
	names := mapset.NewThreadUnsafeSet[string]()
	for _, v := range vars {
		if !identifierPattern.MatchString(v.Name) {
			return nil, common.Validationf("input variable %q is not a valid identifier", v.Name)
		}
		if boilerplate.Reserved(v.Name) {
			return nil, common.Validationf("input variable %q is a reserved name", v.Name)
		}
		if !v.Type.Valid() {
			return nil, common.Validationf("input variable %q has unknown type %q", v.Name, v.Type)
		}
		if !names.Add(v.Name) {
			return nil, common.Validationf("input variable %q is declared twice", v.Name)
		}
	}
	return names, nil
}

func validateTestCases(cases []model.TestCase, varNames mapset.Set[string]) error {
	if len(cases) == 0 || len(cases) > maxTestCases {
		return common.Validationf("between 1 and %d test cases are required", maxTestCases)
	}
	for i, tc := range cases {
		keys := mapset.NewThreadUnsafeSetFromMapKeys(tc.Inputs)
		if unknown := keys.Difference(varNames); unknown.Cardinality() > 0 {
			return common.Validationf("test case %d has unknown inputs %v", i+1, unknown.ToSlice())
		}
		if strings.TrimSpace(tc.ExpectedOutput) == "" {
			return common.Validationf("test case %d has no expected output", i+1)
		}
	}
	return nil
}

// normalizeLanguages drops duplicates. An empty list means every language.
func normalizeLanguages(langs []model.Language) ([]model.Language, error) {
	if len(langs) == 0 {
		return append([]model.Language(nil), model.Languages...), nil
	}
	seen := mapset.NewThreadUnsafeSet[model.Language]()
	out := make([]model.Language, 0, len(langs))
	for _, l := range langs {
		if !l.Valid() {
			return nil, common.Validationf("language %q is not supported", l)
		}
		if seen.Add(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *ProblemService) generateBoilerplates(p *model.Problem) ([]model.Boilerplate, error) {
	out := make([]model.Boilerplate, 0, len(p.SupportedLanguages))
	for _, lang := range p.SupportedLanguages {
		bp, err := s.generateBoilerplate(p, lang)
		if err != nil {
			return nil, err
		}
		out = append(out, bp)
	}
	return out, nil
}

func (s *ProblemService) generateBoilerplate(p *model.Problem, lang model.Language) (model.Boilerplate, error) {
	code, err := boilerplate.Generate(lang, p.InputVariables, p.OutputType)
	if err != nil {
		return model.Boilerplate{}, fmt.Errorf("failed to generate %s boilerplate: %w", lang, err)
	}
	return model.Boilerplate{Language: lang, Version: s.versions.Version(lang), Code: code}, nil
}

// GetProblem finds a problem by id or slug. Boilerplates missing for a
// supported language are generated and stored. Hidden test cases are
// removed.
func (s *ProblemService) GetProblem(ctx context.Context, idOrSlug string) (*model.Problem, error) {
	problem, err := s.findProblem(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	visible := problem.SamplesOnly()
	return &visible, nil
}

func (s *ProblemService) findProblem(ctx context.Context, idOrSlug string) (*model.Problem, error) {
	var problem *model.Problem
	var err error
	if _, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		problem, err = s.problemRepo.FindByID(ctx, idOrSlug)
	} else {
		problem, err = s.problemRepo.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find problem %q: %w", idOrSlug, err)
	}
	s.fillBoilerplates(ctx, problem)
	return problem, nil
}

// fillBoilerplates is best effort: a failure is logged and the problem is
// returned with whatever boilerplates it has.
func (s *ProblemService) fillBoilerplates(ctx context.Context, p *model.Problem) {
	missing := false
	for _, lang := range p.SupportedLanguages {
		if _, ok := p.Boilerplate(lang); ok {
			continue
		}
		bp, err := s.generateBoilerplate(p, lang)
		if err != nil {
			s.log.Warn("could not generate boilerplate", zap.String("problem_id", p.ID), zap.Error(err))
			return
		}
		p.Boilerplates = append(p.Boilerplates, bp)
		missing = true
	}
	if !missing {
		return
	}
	if err := s.problemRepo.UpdateBoilerplates(ctx, p.ID, p.Boilerplates); err != nil {
		s.log.Warn("could not store generated boilerplates", zap.String("problem_id", p.ID), zap.Error(err))
	}
}

// ListProblems returns every problem, newest first, optionally filtered by
// difficulty.
func (s *ProblemService) ListProblems(ctx context.Context, difficulty model.ProblemDifficulty) ([]model.Problem, error) {
	if difficulty != "" && !difficulty.Valid() {
		return nil, common.Validationf("unknown difficulty %q", difficulty)
	}
	all, err := s.problemRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}
	problems := make([]model.Problem, 0, len(all))
	for _, p := range all {
		if difficulty != "" && p.Difficulty != difficulty {
			continue
		}
		problems = append(problems, p.SamplesOnly())
	}
	return problems, nil
}

// GenerateBoilerplate returns the starter program of one language.
func (s *ProblemService) GenerateBoilerplate(ctx context.Context, idOrSlug string, lang model.Language) (*model.Boilerplate, error) {
	if !lang.Valid() {
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedLanguage, lang)
	}
	problem, err := s.findProblem(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if !problem.Supports(lang) {
		return nil, fmt.Errorf("%w: problem does not accept %s", common.ErrUnsupportedLanguage, lang)
	}
	if bp, ok := problem.Boilerplate(lang); ok {
		return &bp, nil
	}
	bp, err := s.generateBoilerplate(problem, lang)
	if err != nil {
		return nil, err
	}
	return &bp, nil
}
