package resolve

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/jonwraymond/safelaw/upstream"
)

// DefaultRegistryBase is the public law registry serving canonical pages.
const DefaultRegistryBase = "https://www.law.go.kr"

// Registry path kinds.
const (
	kindStatute   = "법령"
	kindAdminRule = "행정규칙"
)

// articlePattern matches an article reference like "제5조". The first match
// wins when a title contains several numeric substrings.
var articlePattern = regexp.MustCompile(`제\s*([0-9]+)\s*조`)

// Resolver derives a canonical, dereferenceable URL for a search result.
type Resolver struct {
	registryBase string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithRegistryBase overrides the registry base URL.
func WithRegistryBase(base string) ResolverOption {
	return func(r *Resolver) {
		r.registryBase = strings.TrimRight(base, "/")
	}
}

// NewResolver creates a new link resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{registryBase: DefaultRegistryBase}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the canonical URL for item, or ("", false) when no valid
// link can be derived. Priority: registry URL built from the statute table
// (authoritative even when upstream supplied a sourcePath), then a verbatim
// absolute http(s) sourcePath. There is no further fallback; unresolvable
// items are dropped by the normalizer.
func (r *Resolver) Resolve(item upstream.RawItem) (string, bool) {
	if link, ok := r.registryLink(item); ok {
		return link, true
	}
	if link, ok := absoluteSourcePath(item.SourcePath); ok {
		return link, true
	}
	return "", false
}

func (r *Resolver) registryLink(item upstream.RawItem) (string, bool) {
	if name, ok := StatuteName(item.Category); ok {
		return r.buildRegistryURL(kindStatute, name, articleSuffix(item.Title)), true
	}
	if item.Category == CategoryAdminRule {
		name := stripArticleSuffix(item.Title)
		if name == "" {
			return "", false
		}
		return r.buildRegistryURL(kindAdminRule, name, articleSuffix(item.Title)), true
	}
	return "", false
}

func (r *Resolver) buildRegistryURL(kind, name, article string) string {
	link := r.registryBase + "/" + kind + "/" + url.PathEscape(name)
	if article != "" {
		link += "/" + url.PathEscape(article)
	}
	return link
}

// articleSuffix returns the normalized article segment ("제N조") from a
// title, or "" when the title carries no article reference.
func articleSuffix(title string) string {
	m := articlePattern.FindStringSubmatch(title)
	if m == nil {
		return ""
	}
	return "제" + m[1] + "조"
}

// stripArticleSuffix returns the title with the trailing article reference
// and everything after it removed. Used to infer administrative-rule names.
func stripArticleSuffix(title string) string {
	loc := articlePattern.FindStringIndex(title)
	if loc == nil {
		return strings.TrimSpace(title)
	}
	return strings.TrimSpace(title[:loc[0]])
}

// absoluteSourcePath validates an upstream-supplied URL. Only absolute
// http(s) URLs pass; relative or malformed paths are rejected.
func absoluteSourcePath(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	return raw, true
}
