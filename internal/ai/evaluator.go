package ai

import "context"

// ScoreResult is the outcome of scoring one job description against a resume.
type ScoreResult struct {
	// Score is the model's relevance verdict, clamped to [0, 100].
	Score     float64
	Summary   string
	Strengths []string
	Gaps      []string
}

// Rationale returns the human-readable explanation for the score. Evaluator
// implementations guarantee a non-empty Summary.
func (r *ScoreResult) Rationale() string {
	return r.Summary
}

// RequirementMatch scores a single extracted job requirement against the
// candidate's skill list on a 1-10 scale.
type RequirementMatch struct {
	Requirement string
	Score       int
	Reason      string
}

// LetterRequest carries everything the letter generator needs for one posting.
type LetterRequest struct {
	ResumeText  string
	Email       string
	Phone       string
	JobTitle    string
	Company     string
	Description string
	Location    string
	// Skills is the closed set of skills the letter may mention. The
	// generator is expected to honor this via prompt design; the pipeline
	// does not validate the output against it.
	Skills []string
}

// Evaluator is the single adapter surface for all model-backed operations.
type Evaluator interface {
	ScoreJob(ctx context.Context, resumeText, jobDescription string) (*ScoreResult, error)
	AnalyzeRequirements(ctx context.Context, requirements, skills []string) ([]RequirementMatch, error)
	GenerateCoverLetter(ctx context.Context, req *LetterRequest) (string, error)
}
