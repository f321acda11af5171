package constraint

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dlclark/regexp2"
)

var (
	// ErrRegexTimeout indicates a pattern took too long to evaluate.
	ErrRegexTimeout = errors.New("regex timeout")
	// ErrRegexComplexity indicates a pattern exceeds the complexity limits.
	ErrRegexComplexity = errors.New("regex pattern too complex")
)

// Resource limits with documented rationale
const (
	// regexMatchTimeout prevents ReDoS attacks
	regexMatchTimeout = 100 * time.Millisecond

	// maxRegexCacheSize limits memory usage from compiled regex patterns
	maxRegexCacheSize = 1000

	// maxRegexPatternLength prevents compilation of extremely complex patterns
	maxRegexPatternLength = 1000

	// maxLRUEvictionBatch controls how many entries to evict at once
	maxLRUEvictionBatch = 100
)

// lruEntry tracks access time for LRU eviction
type lruEntry struct {
	pattern    string
	regex      *regexp2.Regexp
	lastAccess int64 // Unix timestamp
}

// regexCache implements a bounded LRU cache for compiled regex patterns
type regexCache struct {
	entries sync.Map // map[string]*lruEntry
	size    atomic.Int32
	max     int32
}

// Get retrieves a compiled regex from cache and updates access time
func (rc *regexCache) Get(pattern string) (*regexp2.Regexp, bool) {
	if val, ok := rc.entries.Load(pattern); ok {
		entry := val.(*lruEntry)
		atomic.StoreInt64(&entry.lastAccess, time.Now().Unix())
		return entry.regex, true
	}
	return nil, false
}

// Set stores a compiled regex in cache with LRU eviction
func (rc *regexCache) Set(pattern string, re *regexp2.Regexp) {
	entry := &lruEntry{
		pattern:    pattern,
		regex:      re,
		lastAccess: time.Now().Unix(),
	}

	if _, loaded := rc.entries.LoadOrStore(pattern, entry); loaded {
		return // Already exists
	}

	newSize := rc.size.Add(1)
	if newSize > rc.max {
		rc.evictLRU()
	}
}

// evictLRU removes least recently used entries
func (rc *regexCache) evictLRU() {
	var entries []*lruEntry

	rc.entries.Range(func(key, value any) bool {
		entries = append(entries, value.(*lruEntry))
		return true
	})

	if len(entries) == 0 {
		return
	}

	// Simple selection of oldest entries without full sort for performance
	toEvict := min(maxLRUEvictionBatch, len(entries)/4) // Evict 25% or batch size
	if toEvict == 0 {
		toEvict = 1
	}

	for i := 0; i < toEvict; i++ {
		oldestIdx := i
		oldestTime := atomic.LoadInt64(&entries[i].lastAccess)

		for j := i + 1; j < len(entries); j++ {
			accessTime := atomic.LoadInt64(&entries[j].lastAccess)
			if accessTime < oldestTime {
				oldestIdx = j
				oldestTime = accessTime
			}
		}

		if oldestIdx != i {
			entries[i], entries[oldestIdx] = entries[oldestIdx], entries[i]
		}

		rc.entries.Delete(entries[i].pattern)
		rc.size.Add(-1)
	}
}

// patternCache is shared by every PATTERN constraint validation; the
// bound keeps a hostile schema from growing it without limit.
var patternCache = &regexCache{max: maxRegexCacheSize}

// validatePattern compiles pattern with the regexp2 engine and probes it
// against the empty string under the ReDoS match timeout, so a PATTERN
// constraint carrying an uncompilable or pathological regex is rejected
// at add/import time rather than surfacing when a form is filled in.
func validatePattern(pattern string) error {
	if len(pattern) > maxRegexPatternLength {
		return fmt.Errorf("%w: pattern length %d exceeds limit %d",
			ErrRegexComplexity, len(pattern), maxRegexPatternLength)
	}

	var re *regexp2.Regexp
	if cached, ok := patternCache.Get(pattern); ok {
		re = cached
	} else {
		var err error
		re, err = regexp2.Compile(pattern, regexp2.None)
		if err != nil {
			return fmt.Errorf("invalid regexp: %w", err)
		}
		patternCache.Set(pattern, re)
	}

	re.MatchTimeout = regexMatchTimeout

	if _, err := re.MatchString(""); err != nil {
		if strings.Contains(err.Error(), "timeout") {
			return fmt.Errorf("%w: pattern took too long to evaluate", ErrRegexTimeout)
		}
		return fmt.Errorf("regexp match error: %w", err)
	}

	return nil
}
