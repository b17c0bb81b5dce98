package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/tzemach-hadar/ai-job-hunter/internal/ai"
	"github.com/tzemach-hadar/ai-job-hunter/internal/logger"
)

const (
	scoreTemperature  = 0.2
	letterTemperature = 0.7

	defaultMaxLogLength = 200
)

// Typed parsing failures. The pipeline treats them all as a skip, but tests
// and logs distinguish them.
var (
	ErrNoJSON       = errors.New("no JSON object found in model response")
	ErrMissingScore = errors.New("score field missing in model response")
	ErrNotAList     = errors.New("model response is not a JSON array")
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, temperature float32) (string, error)
	Model() string
}

// Evaluator implements ai.Evaluator on top of the Gemini API.
type Evaluator struct {
	generator    contentGenerator
	scoringGuide string
	logger       *zap.Logger
	maxLogLen    int
}

// NewEvaluator wires a content generator into the evaluator contract.
// scoringGuide, when non-empty, is injected into every scoring prompt.
func NewEvaluator(generator contentGenerator, scoringGuide string, log *zap.Logger) *Evaluator {
	if log == nil {
		log = zap.NewNop()
	}

	return &Evaluator{
		generator:    generator,
		scoringGuide: strings.TrimSpace(scoringGuide),
		logger:       log,
		maxLogLen:    defaultMaxLogLength,
	}
}

var _ ai.Evaluator = (*Evaluator)(nil)

type scorePayload struct {
	Score     float64  `mapstructure:"score"`
	Summary   string   `mapstructure:"summary"`
	Rationale string   `mapstructure:"rationale"`
	Strengths []string `mapstructure:"strengths"`
	Gaps      []string `mapstructure:"gaps"`
}

// ScoreJob asks the model for a 0-100 relevance score with rationale. Any
// malformed or incomplete response is returned as an error; the caller is
// expected to skip the posting.
func (e *Evaluator) ScoreJob(ctx context.Context, resumeText, jobDescription string) (*ai.ScoreResult, error) {
	prompt := buildScorePrompt(resumeText, jobDescription, e.scoringGuide)

	e.logger.Debug("gemini score request",
		zap.String("model", e.generator.Model()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt, scoreTemperature)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini score response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, e.maxLogLen)),
	)

	extracted, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(extracted), &data); err != nil {
		return nil, fmt.Errorf("parse score response: %w", err)
	}

	if _, ok := data["score"]; !ok {
		return nil, ErrMissingScore
	}

	var payload scorePayload
	if err := weakDecode(data, &payload); err != nil {
		return nil, fmt.Errorf("decode score payload: %w", err)
	}

	summary := payload.Summary
	if summary == "" {
		summary = payload.Rationale
	}
	if summary == "" {
		summary = fmt.Sprintf("Match score: %.1f", payload.Score)
	}

	return &ai.ScoreResult{
		Score:     clampScore(payload.Score),
		Summary:   summary,
		Strengths: payload.Strengths,
		Gaps:      payload.Gaps,
	}, nil
}

// AnalyzeRequirements scores each extracted requirement against the skill
// list on a 1-10 scale. An empty requirements list short-circuits without a
// model call.
func (e *Evaluator) AnalyzeRequirements(ctx context.Context, requirements, skills []string) ([]ai.RequirementMatch, error) {
	if len(requirements) == 0 {
		return []ai.RequirementMatch{}, nil
	}

	prompt := buildRequirementsPrompt(requirements, skills)

	raw, err := e.generator.GenerateContent(ctx, prompt, scoreTemperature)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini requirement analysis response",
		zap.Int("requirements", len(requirements)),
		zap.String("response_preview", logger.TruncateForLog(raw, e.maxLogLen)),
	)

	extracted, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var items []map[string]any
	if err := json.Unmarshal([]byte(extracted), &items); err != nil {
		if strings.HasPrefix(strings.TrimSpace(extracted), "{") {
			return nil, ErrNotAList
		}
		return nil, fmt.Errorf("parse requirement analysis: %w", err)
	}

	matches := make([]ai.RequirementMatch, 0, len(items))
	for _, item := range items {
		var match ai.RequirementMatch
		if err := weakDecode(item, &match); err != nil {
			return nil, fmt.Errorf("decode requirement match: %w", err)
		}
		matches = append(matches, match)
	}

	return matches, nil
}

// GenerateCoverLetter produces the tailored letter body. The prompt restricts
// the model to the provided skill list.
func (e *Evaluator) GenerateCoverLetter(ctx context.Context, req *ai.LetterRequest) (string, error) {
	if req == nil {
		return "", errors.New("letter request is required")
	}

	prompt := buildLetterPrompt(
		req.ResumeText,
		req.Email,
		req.Phone,
		req.JobTitle,
		req.Company,
		req.Description,
		req.Location,
		req.Skills,
	)

	raw, err := e.generator.GenerateContent(ctx, prompt, letterTemperature)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(raw), nil
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// weakDecode maps loosely-typed JSON data into the target struct, tolerating
// numbers delivered as strings and similar model quirks.
func weakDecode(input, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// extractJSON locates the first balanced JSON object or array embedded in the
// model output. Code fences are stripped first. Anything before or after the
// balanced region is discarded.
func extractJSON(raw string) (string, error) {
	raw = stripCodeFence(raw)

	start := strings.IndexAny(raw, "{[")
	if start == -1 {
		return "", ErrNoJSON
	}

	open := raw[start]
	var closing byte = '}'
	if open == '[' {
		closing = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open || (c == '{' && open == '[') || (c == '[' && open == '{'):
			depth++
		case c == closing || (c == '}' && open == '[') || (c == ']' && open == '{'):
			depth--
			if depth == 0 && c == closing {
				return raw[start : i+1], nil
			}
		}
	}

	return "", ErrNoJSON
}

func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}
