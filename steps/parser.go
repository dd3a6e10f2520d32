// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package steps

import (
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/mattermost/mattermost-plugin-airdrops/logger"
	"github.com/mattermost/mattermost-plugin-airdrops/metrics"
)

// Parser wraps Parse with optional caching, an input size limit, logging and metrics.
// The zero configuration behaves exactly like Parse. A Parser with a cache must be
// closed to stop its cleanup goroutine.
type Parser struct {
	cache         *parseCache
	log           logger.Logger
	metrics       metrics.Metrics
	maxInputBytes int
}

type ParserOption func(*Parser)

// WithCache caches results for ttl. A non-positive ttl disables caching.
func WithCache(ttl time.Duration) ParserOption {
	return func(p *Parser) {
		if ttl > 0 {
			p.cache = newParseCache(ttl)
		}
	}
}

func WithLogger(log logger.Logger) ParserOption {
	return func(p *Parser) {
		if log != nil {
			p.log = log
		}
	}
}

func WithMetrics(m metrics.Metrics) ParserOption {
	return func(p *Parser) {
		p.metrics = m
	}
}

// WithMaxInputBytes truncates larger inputs before parsing. Zero means no limit.
func WithMaxInputBytes(n int) ParserOption {
	return func(p *Parser) {
		if n > 0 {
			p.maxInputBytes = n
		}
	}
}

func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{log: logger.NewNopLogger()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse is the Parser's equivalent of the package-level Parse.
func (p *Parser) Parse(src string) []Step {
	steps, _ := p.ParseWithTier(src)
	return steps
}

// ParseWithTier parses src, serving and storing results through the cache when enabled.
// The returned slice is always owned by the caller.
func (p *Parser) ParseWithTier(src string) ([]Step, Tier) {
	start := time.Now()
	src = p.limit(src)

	var key uint64
	if p.cache != nil {
		key = xxhash.Sum64String(src)
		if steps, tier, ok := p.cache.get(key); ok {
			if p.metrics != nil {
				p.metrics.IncrementCacheHits()
			}
			p.log.Debug("Parsed participation steps", "tier", tier.String(), "steps", len(steps), "cached", true, "bytes", len(src))
			return cloneSteps(steps), tier
		}
		if p.metrics != nil {
			p.metrics.IncrementCacheMisses()
		}
	}

	steps, tier := ParseWithTier(src)
	if p.cache != nil {
		p.cache.set(key, cloneSteps(steps), tier)
	}

	if p.metrics != nil {
		p.metrics.ObserveParse(tier.String(), len(steps), time.Since(start).Seconds())
	}
	p.log.Debug("Parsed participation steps", "tier", tier.String(), "steps", len(steps), "cached", false, "bytes", len(src))

	return steps, tier
}

// CacheStats returns cache statistics, or nil when caching is disabled
func (p *Parser) CacheStats() map[string]interface{} {
	if p.cache == nil {
		return nil
	}
	return p.cache.stats()
}

// ClearCache drops every cached result
func (p *Parser) ClearCache() {
	if p.cache != nil {
		p.cache.clear()
	}
}

// Close stops the cache cleanup goroutine. Safe to call more than once.
func (p *Parser) Close() {
	if p.cache != nil {
		p.cache.close()
	}
}

// limit cuts oversized input at the last complete tag within the limit, or hard
// at the limit when there is none.
func (p *Parser) limit(src string) string {
	if p.maxInputBytes <= 0 || len(src) <= p.maxInputBytes {
		return src
	}

	p.log.Warn("Participation steps exceed size limit, truncating", "bytes", len(src), "limit", p.maxInputBytes)
	if p.metrics != nil {
		p.metrics.IncrementTruncatedInputs()
	}

	if lastClose := strings.LastIndex(src[:p.maxInputBytes], ">"); lastClose > 0 {
		return src[:lastClose+1]
	}
	return strings.ToValidUTF8(src[:p.maxInputBytes], "")
}

func cloneSteps(steps []Step) []Step {
	if steps == nil {
		return nil
	}
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}
