// Package pipeline orchestrates test-case generation: advisory validation,
// the AI attempt, the deterministic fallback, the last-resort defaults,
// deduplication, the hard cap, and the result cache.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"testforge/internal/analysis"
	"testforge/internal/analytics"
	"testforge/internal/cache"
	"testforge/internal/extract"
	"testforge/internal/generator"
	"testforge/internal/llm"
	"testforge/internal/model"
	"testforge/internal/prompt"
	"testforge/internal/workflow"
)

var storyKeyRe = regexp.MustCompile(`\[?([A-Z][A-Z0-9]+-\d+)\]?`)

// Pipeline wires the generation stages together. A nil client disables the
// AI path; generation then runs deterministically.
type Pipeline struct {
	client   llm.Client
	store    *workflow.Store
	cache    *cache.Cache
	recorder *analytics.Recorder
	logger   *zap.Logger
}

// New builds a pipeline. store, results and recorder must not be nil;
// client may be nil for offline operation.
func New(client llm.Client, store *workflow.Store, results *cache.Cache, recorder *analytics.Recorder, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		client:   client,
		store:    store,
		cache:    results,
		recorder: recorder,
		logger:   logger,
	}
}

// Generate runs the full pipeline for one request. It always produces at
// least the default pair; errors surface only for context cancellation.
func (p *Pipeline) Generate(ctx context.Context, req model.GenerationRequest) (model.GenerationResult, error) {
	key := p.storyKey(req)
	variant := workflow.Resolve(req.StoryKey, req.UserStory)
	log := p.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("story_key", key),
		zap.String("variant", string(variant)),
	)

	if req.ForceRefresh {
		p.cache.Delete(key)
		log.Info("forced refresh, cache entry evicted")
	} else if cached, ok := p.cache.Get(key); ok {
		cached.Source = model.SourceCache
		cached.Message += " (from cache)"
		log.Info("serving cached result", zap.Int("cases", len(cached.Cases)))
		return cached, nil
	}

	p.softValidate(ctx, req, log)

	cases, source := p.aiAttempt(ctx, req, variant, log)
	if len(cases) == 0 {
		if err := ctx.Err(); err != nil {
			return model.GenerationResult{}, err
		}
		a := analysis.Analyze(req.UserStory, req.AcceptanceCriteria, req.BusinessRules)
		cases = generator.Fallback(a, variant)
		source = model.SourceFallback
	}
	if len(cases) == 0 {
		cases = generator.DefaultCases(variant)
		source = model.SourceDefault
	}

	cases = dedupCases(cases)
	if len(cases) > generator.MaxCases {
		cases = cases[:generator.MaxCases]
	}

	result := model.GenerationResult{
		Cases:       cases,
		Source:      source,
		Message:     fmt.Sprintf("Generated %d test cases (%s)", len(cases), source),
		StoryKey:    key,
		GeneratedAt: time.Now(),
	}

	if !req.ForceRefresh {
		p.cache.Put(key, result)
	}
	if p.recorder != nil {
		p.recorder.Track(len(cases), req.UserTag)
	}

	log.Info("generation complete",
		zap.String("source", source),
		zap.Int("cases", len(cases)))
	return result, nil
}

// GenerateBatch runs requests concurrently, at most limit at a time.
// Per-request failures are joined into the returned error; successful
// siblings still get results.
func (p *Pipeline) GenerateBatch(ctx context.Context, reqs []model.GenerationRequest, limit int) ([]model.GenerationResult, error) {
	results := make([]model.GenerationResult, len(reqs))
	errs := make([]error, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			res, err := p.Generate(ctx, req)
			if err != nil {
				errs[i] = fmt.Errorf("story %q: %w", req.StoryKey, err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	// workers never return errors; Wait only synchronizes
	_ = g.Wait()

	return results, errors.Join(errs...)
}

// softValidate asks the model whether the requirement is testable. The
// verdict never blocks generation.
func (p *Pipeline) softValidate(ctx context.Context, req model.GenerationRequest, log *zap.Logger) {
	if p.client == nil {
		return
	}
	verdict, err := p.client.CompleteWithSystem(ctx, prompt.ValidationSystem(), prompt.ValidationUser(req))
	if err != nil {
		log.Warn("requirement validation unavailable", zap.Error(err))
		return
	}
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(verdict)), "INVALID") {
		log.Warn("requirement may be insufficient for test derivation",
			zap.String("verdict", analysis.Truncate(verdict, 200)))
	}
}

// aiAttempt runs the LLM path. Any failure returns no cases and the
// caller falls back.
func (p *Pipeline) aiAttempt(ctx context.Context, req model.GenerationRequest, variant workflow.Variant, log *zap.Logger) ([]model.TestCase, string) {
	if p.client == nil {
		return nil, ""
	}

	system := prompt.GenerationSystem(variant, p.store.Content(variant))
	raw, err := p.client.CompleteWithSystem(ctx, system, prompt.GenerationUser(req))
	if err != nil {
		log.Warn("ai generation failed, falling back", zap.Error(err))
		return nil, ""
	}

	cases, skipped, err := extract.Parse(raw)
	if err != nil {
		log.Warn("could not extract test cases from response, falling back",
			zap.Error(err),
			zap.Int("response_len", len(raw)))
		return nil, ""
	}
	if skipped > 0 {
		log.Warn("skipped malformed elements in model response", zap.Int("skipped", skipped))
	}
	return cases, model.SourceAI
}

// storyKey finds a Jira-style key in the request, or derives a stable
// synthetic key from the content so caching still applies.
func (p *Pipeline) storyKey(req model.GenerationRequest) string {
	for _, text := range []string{req.StoryKey, req.UserStory} {
		if m := storyKeyRe.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	h := fnv.New32a()
	h.Write([]byte(strings.TrimSpace(req.UserStory)))
	h.Write([]byte(strings.TrimSpace(req.AcceptanceCriteria)))
	h.Write([]byte(strings.TrimSpace(req.BusinessRules)))
	return fmt.Sprintf("GEN-%08X", h.Sum32())
}

// dedupCases drops cases whose normalized scenario was already seen,
// keeping first occurrences in order.
func dedupCases(cases []model.TestCase) []model.TestCase {
	seen := make(map[string]struct{}, len(cases))
	out := make([]model.TestCase, 0, len(cases))
	for _, tc := range cases {
		key := strings.ToLower(strings.TrimSpace(tc.Scenario))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tc)
	}
	return out
}
