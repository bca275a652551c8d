// Package search assembles RediSearch queries for the asset index and
// parses results. It is a pass-through to the external search engine; query
// syntax and scoring live there.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/keys"
	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/monitor"
)

// DefaultLimit applies when no page size is requested.
const DefaultLimit = 20

// returnFields is the projection whitelist requested from the index.
var returnFields = []string{
	"id", "name", "type", "manufacturer", "model", "status",
	"zone", "region", "temperature", "pressure", "flow_rate", "team",
}

// suggestibleFields are the tag fields exposed for autocomplete.
var suggestibleFields = map[string]bool{
	"type":         true,
	"manufacturer": true,
	"status":       true,
	"region":       true,
	"team":         true,
}

// Filters describes one asset search.
type Filters struct {
	Query        string
	Type         string
	Manufacturer string
	Status       string
	Region       string
	Team         string
	Limit        int
	Offset       int
}

// Expression builds the RediSearch query string: free text first, then one
// tag clause per populated filter. No clauses at all matches everything.
func (f Filters) Expression() string {
	var parts []string
	if f.Query != "" && f.Query != "*" {
		parts = append(parts, "("+f.Query+")")
	}
	for _, tag := range []struct{ field, value string }{
		{"type", f.Type},
		{"manufacturer", f.Manufacturer},
		{"status", f.Status},
		{"region", f.Region},
		{"team", f.Team},
	} {
		if tag.value != "" {
			parts = append(parts, fmt.Sprintf("@%s:{%s}", tag.field, tag.value))
		}
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

// Result is one page of search hits.
type Result struct {
	Total  int64               `json:"total"`
	Assets []map[string]string `json:"assets"`
	Query  string              `json:"query"`
}

// ErrFieldNotSuggestible reports a Suggestions call for a field outside the
// tag whitelist.
type ErrFieldNotSuggestible struct {
	Field string
}

func (e ErrFieldNotSuggestible) Error() string {
	return fmt.Sprintf("search: field %q is not available for suggestions", e.Field)
}

// Searcher runs asset searches against the RediSearch index.
type Searcher struct {
	rdb      redis.Cmdable
	keys     keys.Scheme
	recorder *monitor.Recorder // optional, may be nil
}

// NewSearcher creates a Searcher. recorder may be nil.
func NewSearcher(rdb redis.Cmdable, scheme keys.Scheme, recorder *monitor.Recorder) *Searcher {
	return &Searcher{rdb: rdb, keys: scheme, recorder: recorder}
}

// Assets runs one search and returns the hit page with the projected
// fields.
func (s *Searcher) Assets(ctx context.Context, f Filters) (Result, error) {
	expr := f.Expression()
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.audit(ctx, "FT.SEARCH", s.keys.SearchIndex()+" "+expr)

	options := &redis.FTSearchOptions{
		LimitOffset: f.Offset,
		Limit:       limit,
	}
	for _, field := range returnFields {
		options.Return = append(options.Return, redis.FTSearchReturn{FieldName: field})
	}

	res, err := s.rdb.FTSearchWithArgs(ctx, s.keys.SearchIndex(), expr, options).Result()
	if err != nil {
		return Result{}, fmt.Errorf("searching assets: %w", err)
	}

	assets := make([]map[string]string, 0, len(res.Docs))
	for _, doc := range res.Docs {
		if len(doc.Fields) > 0 {
			assets = append(assets, doc.Fields)
		}
	}
	return Result{Total: int64(res.Total), Assets: assets, Query: expr}, nil
}

// Suggestions returns the distinct tag values of one suggestible field.
func (s *Searcher) Suggestions(ctx context.Context, field string) ([]string, error) {
	if !suggestibleFields[field] {
		return nil, ErrFieldNotSuggestible{Field: field}
	}

	s.audit(ctx, "FT.TAGVALS", s.keys.SearchIndex()+" "+field)
	values, err := s.rdb.FTTagVals(ctx, s.keys.SearchIndex(), field).Result()
	if err != nil {
		return nil, fmt.Errorf("listing tag values: %w", err)
	}
	return values, nil
}

func (s *Searcher) audit(ctx context.Context, operation, key string) {
	if s.recorder != nil {
		s.recorder.Record(ctx, operation, key, "", monitor.PartitionSearch)
	}
}
