package analyzer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/featlens/featlens/internal/cache"
	"github.com/featlens/featlens/internal/fileproc"
	"github.com/featlens/featlens/pkg/models"
)

// The scan works on raw file text, not an AST. The three extractors overlap
// by design; their results are unioned, so duplicates collapse naturally.
var (
	// #[cfg(feature = "x")] and variants with surrounding conditions,
	// possibly spanning multiple lines.
	cfgFeatureRe = regexp.MustCompile(`(?s)#\[cfg\(.*?feature\s*=\s*"([^"]+)".*?\)\]`)

	// The body of any #[cfg(...)] attribute, from which compound conditions
	// like any(feature = "a", feature = "b") are unpacked clause by clause.
	cfgAttrRe   = regexp.MustCompile(`(?s)#\[cfg\((.*?)\)\]`)
	featureEqRe = regexp.MustCompile(`feature\s*=\s*"([^"]+)"`)

	// The cfg_if! macro idiom, which embeds a feature condition in its
	// opening if-clause.
	cfgIfRe = regexp.MustCompile(`(?s)cfg_if::cfg_if!\s*\{\s*if\s*#\[cfg\(.*?feature\s*=\s*"([^"]+)".*?\)\]`)
)

// SourceScanner finds feature-flag references in source text.
type SourceScanner struct {
	cache *cache.Cache
}

// ScannerOption configures a SourceScanner.
type ScannerOption func(*SourceScanner)

// WithCache enables per-file result caching keyed by content hash.
func WithCache(c *cache.Cache) ScannerOption {
	return func(s *SourceScanner) {
		s.cache = c
	}
}

// NewSourceScanner creates a scanner.
func NewSourceScanner(opts ...ScannerOption) *SourceScanner {
	s := &SourceScanner{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanText returns the feature names referenced in the given text, sorted.
func (s *SourceScanner) ScanText(text string) []string {
	features := make(map[string]struct{})

	for _, m := range cfgFeatureRe.FindAllStringSubmatch(text, -1) {
		features[m[1]] = struct{}{}
	}
	for _, attr := range cfgAttrRe.FindAllStringSubmatch(text, -1) {
		for _, m := range featureEqRe.FindAllStringSubmatch(attr[1], -1) {
			features[m[1]] = struct{}{}
		}
	}
	for _, m := range cfgIfRe.FindAllStringSubmatch(text, -1) {
		features[m[1]] = struct{}{}
	}

	return sortedKeys(features)
}

// ScanFile reads and scans one file. Results are served from the cache when
// the file's content hash matches a previous scan.
func (s *SourceScanner) ScanFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	hash := cache.HashBytes(data)
	if s.cache != nil {
		if cached, ok := s.cache.GetWithHash(path, hash); ok {
			var features []string
			if err := json.Unmarshal(cached, &features); err == nil {
				return features, nil
			}
		}
	}

	features := s.ScanText(string(data))
	if s.cache != nil {
		if encoded, err := json.Marshal(features); err == nil {
			_ = s.cache.SetWithHash(path, hash, encoded)
		}
	}
	return features, nil
}

// ScanProject scans files in parallel and returns one FileUsage per file,
// with paths relative to root, sorted by path so the merge is deterministic.
// Files that cannot be read are reported through onError and yield an empty
// result, so every discovered file counts toward the inventory totals.
func (s *SourceScanner) ScanProject(root string, files []string, onProgress fileproc.ProgressFunc, onError fileproc.ErrorFunc) []models.FileUsage {
	results := fileproc.ForEachFileN(files, 0, func(path string) (models.FileUsage, error) {
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		usage := models.FileUsage{Path: filepath.ToSlash(rel)}

		features, err := s.ScanFile(path)
		if err != nil {
			if onError != nil {
				onError(path, err)
			}
			return usage, nil
		}
		usage.Features = features
		return usage, nil
	}, onProgress, nil)

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results
}
