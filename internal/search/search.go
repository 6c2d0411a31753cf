package search

import (
	"context"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/thomiceli/gistsearch/internal/config"
	"github.com/thomiceli/gistsearch/internal/github"
	"github.com/thomiceli/gistsearch/internal/metrics"
	"github.com/thomiceli/gistsearch/internal/validator"
)

// GistSource lists and fetches gists. Implementations log their own failures and
// return a nil gist, or the summaries gathered so far, along with the error.
type GistSource interface {
	ListGists(ctx context.Context, username string) ([]github.GistSummary, error)
	GetGist(ctx context.Context, id string) (*github.Gist, error)
}

type Searcher struct {
	source       GistSource
	gistURL      string
	matchTimeout time.Duration
	validator    *validator.GistsearchValidator
}

// NewSearcher creates a Searcher reporting matches as gistURL/{username}/{id}.
func NewSearcher(source GistSource, gistURL string, matchTimeout time.Duration) *Searcher {
	return &Searcher{
		source:       source,
		gistURL:      strings.TrimSuffix(gistURL, "/"),
		matchTimeout: matchTimeout,
		validator:    validator.NewValidator(),
	}
}

// NewFromConfig creates a Searcher backed by the Github API, as configured.
func NewFromConfig() *Searcher {
	client := github.NewClient(config.C.GithubApiUrl, config.C.GithubTimeout, map[string]string{
		"User-Agent": "Gistsearch/" + config.GistsearchVersion,
	})
	return NewSearcher(client, config.C.GithubGistUrl, config.C.SearchMatchTimeout)
}

// Search returns the URLs of the gists of req.Username whose content matches req.Pattern
// from its first character.
//
// A malformed request returns a *ValidationError and a pattern that does not compile an
// *InvalidPatternError, both before any call to Github. Gists that cannot be listed or
// fetched are left out of the result.
func (s *Searcher) Search(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if err := s.validator.Validate(&req); err != nil {
		metrics.ObserveSearch(metrics.OutcomeValidation, 0)
		return nil, &ValidationError{Message: validator.ValidationMessages(err)}
	}

	matcher, err := CompilePattern(req.Pattern, s.matchTimeout)
	if err != nil {
		metrics.ObserveSearch(metrics.OutcomeInvalidPattern, 0)
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("username", req.Username).Logger()

	summaries, err := s.source.ListGists(ctx, req.Username)
	if err != nil {
		logger.Warn().Int("listed", len(summaries)).Msg("Gist listing is incomplete, searching the listed gists only")
	}

	matches := make([]string, 0)
	seen := make(map[string]struct{})
	for _, summary := range summaries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if summary.ID == "" {
			logger.Warn().Msg("Skipping a listed gist without id")
			continue
		}

		gist, err := s.source.GetGist(ctx, summary.ID)
		if err != nil || gist == nil {
			continue
		}

		content := AggregateContent(gist)
		matched, err := matcher.MatchPrefix(content)
		if err != nil {
			logger.Error().Err(err).Str("gist", summary.ID).Msg("Failed to match gist content")
			continue
		}
		metrics.GistScanned(matched)

		logger.Debug().Str("gist", summary.ID).Str("size", humanize.Bytes(uint64(len(content)))).
			Bool("matched", matched).Msg("Gist scanned")

		if !matched {
			continue
		}

		gistURL := s.gistURL + "/" + req.Username + "/" + summary.ID
		if _, ok := seen[gistURL]; ok {
			continue
		}
		seen[gistURL] = struct{}{}
		matches = append(matches, gistURL)
	}

	elapsed := time.Since(start)
	metrics.ObserveSearch(metrics.OutcomeSuccess, elapsed)
	logger.Info().Int("gists", len(summaries)).Int("matches", len(matches)).
		Dur("duration", elapsed).Msg("Search done")

	return &Result{
		Status:   StatusSuccess,
		Username: req.Username,
		Pattern:  req.Pattern,
		Matches:  matches,
	}, nil
}
