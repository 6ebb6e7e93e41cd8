package query

import (
	"regexp"
	"strings"

	"github.com/scoutdb/codescout/internal/model"
)

// Analyzer classifies free-text queries into a structured Intent. Analyze is
// pure and deterministic: identical inputs always produce identical intents,
// and it never fails, malformed input degrades to a low-confidence default.
type Analyzer struct {
	rules []rule
}

type parsed struct {
	original   string
	normalized string
	tokens     []string
	tokenSet   map[string]bool
}

// rule is one classification step. Rules run in slice order, the first match
// wins. The order is part of the contract:
//
//  1. troubleshooting
//  2. example_request
//  3. configuration
//  4. api_reference
//  5. documentation
//  6. code_search (fallback, matches everything)
//
// Troubleshooting outranks everything because error messages often also
// contain "example" or framework names; configuration outranks the fallback
// so setup queries are not swallowed by code search.
type rule struct {
	qtype      QueryType
	specific   bool
	confidence float64
	match      func(p *parsed) bool
}

var quotedRe = regexp.MustCompile(`"([^"]+)"`)

func NewAnalyzer() *Analyzer {
	return &Analyzer{rules: classificationRules()}
}

func classificationRules() []rule {
	return []rule{
		{
			qtype: QueryTypeTroubleshooting, specific: true, confidence: 0.2,
			match: func(p *parsed) bool {
				return p.hasAny("error", "exception", "typeerror", "panic", "crash", "broken", "bug", "traceback", "fix") ||
					p.contains("not working", "cannot read", "stack trace", "doesn t work", "does not work")
			},
		},
		{
			qtype: QueryTypeExampleRequest, specific: true, confidence: 0.2,
			match: func(p *parsed) bool {
				return p.hasAny("example", "examples", "sample", "samples", "demo", "snippet") ||
					p.contains("show me")
			},
		},
		{
			qtype: QueryTypeConfiguration, specific: true, confidence: 0.2,
			match: func(p *parsed) bool {
				return p.hasAny("config", "configuration", "configure", "setup", "env", "environment", "install", "settings") ||
					p.contains("set up")
			},
		},
		{
			qtype: QueryTypeAPIReference, specific: true, confidence: 0.2,
			match: func(p *parsed) bool {
				if !p.hasAny("api", "method", "methods", "parameter", "parameters", "signature", "endpoint") {
					return false
				}
				for _, tok := range p.tokens {
					if _, ok := frameworkAliases[tok]; ok {
						return true
					}
					if _, ok := languageAliases[tok]; ok {
						return true
					}
				}
				return false
			},
		},
		{
			qtype: QueryTypeDocumentation, specific: true, confidence: 0.2,
			match: func(p *parsed) bool {
				return p.hasAny("explain", "documentation", "docs", "overview", "guide") ||
					p.contains("what is", "how does")
			},
		},
		{
			// Fallback, always matches. Not a signal, contributes nothing.
			qtype: QueryTypeCodeSearch, specific: false, confidence: 0,
			match: func(p *parsed) bool { return true },
		},
	}
}

// Analyze builds an Intent from the query and optional contexts. Contexts may
// be nil. It never panics: internal failures return a minimal code-search
// intent with zero confidence.
func (a *Analyzer) Analyze(raw string, userCtx *UserContext, repoCtx *RepositoryContext) (intent Intent) {
	defer func() {
		if r := recover(); r != nil {
			intent = Intent{
				OriginalQuery: raw,
				QueryType:     QueryTypeCodeSearch,
				ContentTypes:  defaultContentTypes(QueryTypeCodeSearch),
				SemanticQuery: raw,
				Confidence:    0,
			}
		}
	}()

	p := parse(raw)
	intent = Intent{
		OriginalQuery:  raw,
		KeywordFilters: extractQuoted(raw),
	}

	confidence := 0.3

	for _, r := range a.rules {
		if r.match(p) {
			intent.QueryType = r.qtype
			if r.specific {
				confidence += r.confidence
			}
			break
		}
	}

	intent.ProgrammingLanguage, intent.Frameworks = extractLanguages(p)
	if intent.ProgrammingLanguage != "" {
		confidence += 0.2
	} else {
		intent.ProgrammingLanguage = fallbackLanguage(userCtx, repoCtx)
	}
	fw := 0.15 * float64(len(intent.Frameworks))
	if fw > 0.3 {
		fw = 0.3
	}
	confidence += fw
	if len(intent.KeywordFilters) > 0 {
		confidence += 0.15
	}

	intent.DifficultyLevel = extractDifficulty(p, userCtx)
	intent.ContentTypes = contentTypesFor(intent.QueryType, p)
	intent.SemanticQuery = semanticQuery(p)

	intent.LookingForExamples = intent.QueryType == QueryTypeExampleRequest || p.hasAny("example", "examples", "sample", "samples")
	intent.LookingForDocs = intent.QueryType == QueryTypeDocumentation || p.hasAny("doc", "docs", "documentation")
	intent.Troubleshooting = intent.QueryType == QueryTypeTroubleshooting

	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0 {
		confidence = 0
	}
	intent.Confidence = confidence

	if confidence <= 0.5 {
		intent.Refinements = buildRefinements(intent)
	}
	return intent
}

func parse(raw string) *parsed {
	normalized := normalize(raw)
	tokens := strings.Fields(normalized)
	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
	}
	return &parsed{
		original:   raw,
		normalized: normalized,
		tokens:     tokens,
		tokenSet:   set,
	}
}

// normalize lower-cases and replaces punctuation with spaces so keyword
// matching is token-exact. The original text is kept separately for quoted
// filter extraction.
func normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func (p *parsed) hasAny(words ...string) bool {
	for _, w := range words {
		if p.tokenSet[w] {
			return true
		}
	}
	return false
}

func (p *parsed) contains(phrases ...string) bool {
	for _, ph := range phrases {
		if strings.Contains(p.normalized, ph) {
			return true
		}
	}
	return false
}

func extractQuoted(raw string) []string {
	var filters []string
	for _, m := range quotedRe.FindAllStringSubmatch(raw, -1) {
		if s := strings.TrimSpace(m[1]); s != "" {
			filters = append(filters, m[1])
		}
	}
	return filters
}

// extractLanguages returns the first language mentioned and every framework
// in order of first appearance.
func extractLanguages(p *parsed) (string, []string) {
	var language string
	var frameworks []string
	seen := make(map[string]bool)
	for _, tok := range p.tokens {
		if canonical, ok := languageAliases[tok]; ok && language == "" {
			language = canonical
		}
		if canonical, ok := frameworkAliases[tok]; ok && !seen[canonical] {
			seen[canonical] = true
			frameworks = append(frameworks, canonical)
		}
	}
	return language, frameworks
}

func fallbackLanguage(userCtx *UserContext, repoCtx *RepositoryContext) string {
	if userCtx != nil && len(userCtx.PreferredLanguages) > 0 {
		pref := strings.ToLower(userCtx.PreferredLanguages[0])
		if canonical, ok := languageAliases[pref]; ok {
			return canonical
		}
		return pref
	}
	if repoCtx != nil && repoCtx.PrimaryLanguage != "" {
		return strings.ToLower(repoCtx.PrimaryLanguage)
	}
	return ""
}

func extractDifficulty(p *parsed, userCtx *UserContext) Difficulty {
	for _, tok := range p.tokens {
		if beginnerWords[tok] {
			return DifficultyBeginner
		}
		if advancedWords[tok] {
			return DifficultyAdvanced
		}
	}
	if p.contains("deep dive", "getting started") {
		if p.contains("deep dive") {
			return DifficultyAdvanced
		}
		return DifficultyBeginner
	}
	if userCtx != nil {
		switch userCtx.SkillLevel {
		case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
			return userCtx.SkillLevel
		}
	}
	return DifficultyIntermediate
}

func defaultContentTypes(qt QueryType) []model.ContentType {
	switch qt {
	case QueryTypeExampleRequest:
		return []model.ContentType{model.ContentTypeExample, model.ContentTypeCode}
	case QueryTypeDocumentation:
		return []model.ContentType{model.ContentTypeDocumentation, model.ContentTypeExample}
	case QueryTypeConfiguration:
		return []model.ContentType{model.ContentTypeConfig}
	case QueryTypeAPIReference:
		return []model.ContentType{model.ContentTypeDocumentation, model.ContentTypeCode}
	case QueryTypeTroubleshooting:
		return []model.ContentType{model.ContentTypeCode, model.ContentTypeDocumentation}
	default:
		return []model.ContentType{model.ContentTypeCode, model.ContentTypeDocumentation}
	}
}

// contentTypesFor starts from the per-type default and lets explicit
// "example"/"doc" keywords inject or promote categories.
func contentTypesFor(qt QueryType, p *parsed) []model.ContentType {
	types := defaultContentTypes(qt)
	if p.hasAny("example", "examples", "sample", "samples") {
		types = promote(types, model.ContentTypeExample)
	}
	if p.hasAny("doc", "docs", "documentation") && !containsType(types, model.ContentTypeDocumentation) {
		types = append(types, model.ContentTypeDocumentation)
	}
	return types
}

func promote(types []model.ContentType, ct model.ContentType) []model.ContentType {
	out := []model.ContentType{ct}
	for _, t := range types {
		if t != ct {
			out = append(out, t)
		}
	}
	return out
}

func containsType(types []model.ContentType, ct model.ContentType) bool {
	for _, t := range types {
		if t == ct {
			return true
		}
	}
	return false
}

func semanticQuery(p *parsed) string {
	kept := make([]string, 0, len(p.tokens))
	for _, tok := range p.tokens {
		if !stopWords[tok] {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

func buildRefinements(intent Intent) []string {
	var out []string
	if intent.ProgrammingLanguage == "" {
		out = append(out, "specify a programming language")
	}
	if len(intent.Frameworks) == 0 {
		out = append(out, "mention a framework or library")
	}
	out = append(out, "add more detail about what you are looking for")
	return out
}
