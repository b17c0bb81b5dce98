// Package matcher drives a full matching run: pull postings from the feed,
// skip the ones handled before or too far away, fetch and score the rest,
// and write cover letters for the postings that clear the threshold.
package matcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tzemach-hadar/ai-job-hunter/internal/ai"
	"github.com/tzemach-hadar/ai-job-hunter/internal/feed"
	"github.com/tzemach-hadar/ai-job-hunter/internal/geo"
	"github.com/tzemach-hadar/ai-job-hunter/internal/resume"
	"github.com/tzemach-hadar/ai-job-hunter/internal/scraper"
)

const defaultFetchDelay = 500 * time.Millisecond

type ListingSource interface {
	Fetch(ctx context.Context, max int) ([]feed.Posting, error)
}

type DescriptionFetcher interface {
	Fetch(ctx context.Context, url string) (*scraper.Description, error)
}

type Geocoder interface {
	Resolve(ctx context.Context, place string) (*geo.Coordinates, error)
}

type LetterWriter interface {
	Write(posting feed.Posting, body string) (string, error)
}

type SeenStore interface {
	Load() map[string]struct{}
	Save(seen map[string]struct{}) error
}

type Config struct {
	ScoreThreshold float64
	MaxJobs        int
	TargetLocation string
	MaxDistanceKm  float64
	CoverLetters   bool
	RescanAll      bool
	FetchDelay     time.Duration
}

type Deps struct {
	Source    ListingSource
	Fetcher   DescriptionFetcher
	Geocoder  Geocoder
	Evaluator ai.Evaluator
	Letters   LetterWriter
	Seen      SeenStore
	Profile   *resume.Profile
	Logger    *zap.Logger

	// TableOut receives the per-posting requirement breakdown. Defaults
	// to stdout.
	TableOut io.Writer
}

type Matcher struct {
	config  *Config
	deps    *Deps
	limiter *rate.Limiter
}

func New(config *Config, deps *Deps) *Matcher {
	delay := config.FetchDelay
	if delay <= 0 {
		delay = defaultFetchDelay
	}
	if deps.TableOut == nil {
		deps.TableOut = os.Stdout
	}

	return &Matcher{
		config:  config,
		deps:    deps,
		limiter: rate.NewLimiter(rate.Every(delay), 1),
	}
}

// Run executes one matching pass and returns every posting that was scored.
// A posting is remembered as seen only after it was fetched and scored, so
// transient failures are retried on the next run.
func (m *Matcher) Run(ctx context.Context) (*Evaluations, error) {
	logger := m.deps.Logger

	seen := m.deps.Seen.Load()
	logger.Info("loaded seen postings", zap.Int("count", len(seen)))

	target := m.resolveTarget(ctx)

	postings, err := m.deps.Source.Fetch(ctx, m.config.MaxJobs)
	if err != nil {
		return nil, fmt.Errorf("fetching postings: %w", err)
	}
	logger.Info("fetched postings", zap.Int("count", len(postings)))

	results := &Evaluations{}
	var skippedSeen, skippedDistance, fetchFailures, scoreFailures int

	resumeText := m.deps.Profile.Text()
	skills := m.deps.Profile.CoreSkills()

	for _, posting := range postings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		plog := logger.With(
			zap.String("title", posting.Title),
			zap.String("company", posting.Company),
			zap.String("url", posting.URL),
		)

		if _, ok := seen[posting.URL]; ok && !m.config.RescanAll {
			skippedSeen++
			plog.Debug("skipping posting handled in a previous run")
			continue
		}

		distance, ok := m.checkDistance(ctx, posting, target, plog)
		if !ok {
			skippedDistance++
			continue
		}

		if err := m.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		description, err := m.deps.Fetcher.Fetch(ctx, posting.URL)
		if err != nil {
			fetchFailures++
			plog.Warn("can't fetch posting description", zap.Error(err))
			continue
		}

		score, err := m.deps.Evaluator.ScoreJob(ctx, resumeText, description.Text)
		if err != nil {
			scoreFailures++
			plog.Warn("can't score posting", zap.Error(err))
			continue
		}

		seen[posting.URL] = struct{}{}

		plog.Info("scored posting", zap.Float64("score", score.Score))

		item := &Evaluation{
			Posting:     posting,
			Score:       score.Score,
			Rationale:   score.Rationale(),
			Description: description.Text,
			DistanceKm:  distance,
		}

		m.analyzeRequirements(ctx, posting, description, skills, plog)

		if score.Score >= m.config.ScoreThreshold && m.config.CoverLetters {
			path, err := m.writeLetter(ctx, posting, description, resumeText, skills)
			if err != nil {
				plog.Warn("can't write cover letter", zap.Error(err))
			} else {
				item.CoverLetterPath = path
				plog.Info("cover letter saved", zap.String("path", path))
			}
		}

		results.Append(item)
	}

	if err := m.deps.Seen.Save(seen); err != nil {
		logger.Warn("can't save seen postings", zap.Error(err))
	}

	logger.Info("matching run finished",
		zap.Int("scored", results.Len()),
		zap.Int("matched", results.AboveThreshold(m.config.ScoreThreshold).Len()),
		zap.Int("skipped_seen", skippedSeen),
		zap.Int("skipped_distance", skippedDistance),
		zap.Int("fetch_failures", fetchFailures),
		zap.Int("score_failures", scoreFailures),
	)

	return results, nil
}

// resolveTarget geocodes the configured home location once per run. The
// distance filter needs both a target location and a distance limit; when the
// target fails to resolve the filter is disabled with a warning instead of
// aborting the run.
func (m *Matcher) resolveTarget(ctx context.Context) *geo.Coordinates {
	if m.config.TargetLocation == "" || m.config.MaxDistanceKm <= 0 || m.deps.Geocoder == nil {
		return nil
	}

	target, err := m.deps.Geocoder.Resolve(ctx, m.config.TargetLocation)
	if err != nil {
		m.deps.Logger.Warn("can't resolve target location, distance filter disabled",
			zap.String("place", m.config.TargetLocation), zap.Error(err))
		return nil
	}

	m.deps.Logger.Info("resolved target location",
		zap.String("place", m.config.TargetLocation),
		zap.Float64("lat", target.Lat),
		zap.Float64("lon", target.Lon),
	)

	return target
}

// checkDistance reports whether the posting is within reach of the target
// location. A city that fails to geocode counts as out of range.
func (m *Matcher) checkDistance(ctx context.Context, posting feed.Posting, target *geo.Coordinates, plog *zap.Logger) (*float64, bool) {
	if target == nil {
		return nil, true
	}

	coords, err := m.deps.Geocoder.Resolve(ctx, posting.City)
	if err != nil {
		plog.Info("skipping posting with unresolvable city",
			zap.String("city", posting.City), zap.Error(err))
		return nil, false
	}

	distance := geo.Distance(*target, *coords)
	if distance > m.config.MaxDistanceKm {
		plog.Info("skipping posting outside distance limit",
			zap.String("city", posting.City),
			zap.Float64("distance_km", distance),
			zap.Float64("max_distance_km", m.config.MaxDistanceKm),
		)
		return nil, false
	}

	return &distance, true
}

// analyzeRequirements prints a per-requirement breakdown when the posting
// exposes a requirements list. Failures only cost the table, never the run.
func (m *Matcher) analyzeRequirements(ctx context.Context, posting feed.Posting, description *scraper.Description, skills []string, plog *zap.Logger) {
	if len(description.Requirements) == 0 || len(skills) == 0 {
		return
	}

	matches, err := m.deps.Evaluator.AnalyzeRequirements(ctx, description.Requirements, skills)
	if err != nil {
		plog.Warn("can't analyze requirements", zap.Error(err))
		return
	}
	if len(matches) == 0 {
		return
	}

	w := tabwriter.NewWriter(m.deps.TableOut, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "\nRequirement analysis for %s at %s:\n", posting.Title, posting.Company)
	fmt.Fprintln(w, "REQUIREMENT\tSCORE\tREASON")
	for _, match := range matches {
		fmt.Fprintf(w, "%s\t%d/10\t%s\n", match.Requirement, match.Score, match.Reason)
	}
	w.Flush()
}

func (m *Matcher) writeLetter(ctx context.Context, posting feed.Posting, description *scraper.Description, resumeText string, skills []string) (string, error) {
	body, err := m.deps.Evaluator.GenerateCoverLetter(ctx, &ai.LetterRequest{
		ResumeText:  resumeText,
		Email:       m.deps.Profile.Contact.Email,
		Phone:       m.deps.Profile.Contact.Phone,
		JobTitle:    posting.Title,
		Company:     posting.Company,
		Description: description.Text,
		Location:    posting.City,
		Skills:      skills,
	})
	if err != nil {
		return "", fmt.Errorf("generating cover letter: %w", err)
	}

	return m.deps.Letters.Write(posting, body)
}
