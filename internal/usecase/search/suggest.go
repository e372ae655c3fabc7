package search

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/lighthouse-careers/agentsearch/internal/domain/candidate"
	domsearch "github.com/lighthouse-careers/agentsearch/internal/domain/search"
	"github.com/lighthouse-careers/agentsearch/internal/logger"
)

// DefaultSuggestionSample is how many recent records feed the frequency fallback.
const DefaultSuggestionSample = 200

const minWordLength = 3

var stopWords = map[string]struct{}{
	"and": {}, "the": {}, "with": {}, "for": {}, "who": {}, "has": {}, "have": {},
	"years": {}, "year": {}, "yrs": {}, "experience": {}, "looking": {}, "need": {},
	"needed": {}, "plus": {}, "least": {}, "from": {}, "available": {},
}

// queryWords splits text into distinct lowercase words of at least three
// characters, in order of first appearance, skipping filler words.
func queryWords(text string) []string {
	fields := candidate.Words(text)
	seen := make(map[string]struct{}, len(fields))
	var out []string
	for _, f := range fields {
		if utf8.RuneCountInString(f) < minWordLength {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// suggest returns up to MaxSuggestions positions sharing a word with the query,
// falling back to the most frequent recent positions. Lookup errors are logged
// and yield fewer suggestions; they never fail the search.
func (s *Service) suggest(ctx context.Context, text string) []string {
	if s.suggester == nil {
		return nil
	}
	log := logger.FromContext(ctx)

	if words := queryWords(text); len(words) > 0 {
		matched, err := s.suggester.PositionsMatching(ctx, words, domsearch.MaxSuggestions)
		if err != nil {
			log.Warn("Position suggestions by word failed", zap.Error(err))
		} else if len(matched) > 0 {
			return matched[:min(len(matched), domsearch.MaxSuggestions)]
		}
	}

	frequent, err := s.suggester.FrequentPositions(ctx, s.opts.SuggestionSample, domsearch.MaxSuggestions)
	if err != nil {
		log.Warn("Frequent position suggestions failed", zap.Error(err))
		return nil
	}
	return frequent[:min(len(frequent), domsearch.MaxSuggestions)]
}
