// Package scorer computes a heuristic confidence for task text. The score
// is a weighted keyword/regex pass over the input, not a calibrated
// probability. Both the server agent and any other caller must go through
// this package: the word lists and thresholds live here and nowhere else.
package scorer

import (
	"regexp"
	"strings"

	"github.com/rcliao/taskpilot/internal/domain"
)

// Score bounds for the additive path. The store-wide bounds in domain are
// wider because a few fixed operation constants sit above this ceiling.
const (
	floor   = 0.1
	ceiling = 0.85
	base    = 0.2
)

// Analysis is the scorer's verdict on one piece of task text.
type Analysis struct {
	Confidence float64
	Flags      []domain.Flag
	Reason     string
}

// HardRejected reports whether the text failed one of the short-circuit
// checks. Rejected text should not become a task.
func (a Analysis) HardRejected() bool {
	for _, f := range a.Flags {
		switch f {
		case domain.FlagMalformed, domain.FlagContradictory, domain.FlagUnsafe, domain.FlagOverbroad:
			return true
		}
	}
	return false
}

var (
	excessivePunct = regexp.MustCompile(`[!?]{3,}|[.]{4,}|[#@$%^&*]{2,}`)
	onlySymbols    = regexp.MustCompile(`^[^a-zA-Z0-9\s]+$`)

	contradictions = []*regexp.Regexp{
		regexp.MustCompile(`technical.*but.*no.*technical`),
		regexp.MustCompile(`presentation.*but.*no.*present`),
		regexp.MustCompile(`build.*but.*don't.*create`),
		regexp.MustCompile(`detailed.*but.*simple`),
		regexp.MustCompile(`complex.*but.*basic`),
	}

	unsafePatterns = []*regexp.Regexp{
		regexp.MustCompile(`autonomous.*hiring.*without.*human`),
		regexp.MustCompile(`replace.*human.*decision`),
		regexp.MustCompile(`ignore.*rules|bypass.*constraint`),
		regexp.MustCompile(`full.*autonomy.*without.*oversight`),
		regexp.MustCompile(`make.*decisions.*without.*approval`),
	}

	overbroadPatterns = []*regexp.Regexp{
		regexp.MustCompile(`solve.*all.*problems`),
		regexp.MustCompile(`everything.*automatically`),
		regexp.MustCompile(`complete.*solution.*for.*everything`),
		regexp.MustCompile(`build.*system.*that.*does.*everything`),
		regexp.MustCompile(`automate.*entire.*business`),
	}

	vagueTerms   = regexp.MustCompile(`\b(something|stuff|things|maybe|probably|somehow|whatever|handle|deal with|work on)\b`)
	tooGeneric   = regexp.MustCompile(`\b(do|make|create|build)\s+\w{1,4}\b`)
	actionVerbs  = regexp.MustCompile(`\b(design|build|create|develop|implement|analyze|research|write|plan|organize)\b`)
	technical    = regexp.MustCompile(`\b(api|database|system|framework|algorithm|model|architecture|deployment|testing)\b`)
	contextWords = regexp.MustCompile(`\b(for|using|with|in|on|project|application|website|mobile|web)\b`)
	objectives   = regexp.MustCompile(`\b(to|will|should|must|need|goal|objective|target|result)\b`)
	complexity   = regexp.MustCompile(`\b(complex|advanced|sophisticated|enterprise|scalable|distributed|machine learning|ai)\b`)
)

// Analyze scores task text. Hard failures (malformed, contradictory,
// unsafe, overbroad) short-circuit with a fixed low confidence; otherwise
// the score accumulates additively from base and is clamped to
// [0.1, 0.85].
func Analyze(text string) Analysis {
	t := strings.ToLower(strings.TrimSpace(text))

	if malformed(t) {
		return Analysis{Confidence: 0.1, Flags: []domain.Flag{domain.FlagMalformed}, Reason: "Invalid input format detected"}
	}
	if matchesAny(t, contradictions) {
		return Analysis{Confidence: 0.15, Flags: []domain.Flag{domain.FlagContradictory}, Reason: "Contradictory requirements detected"}
	}
	if matchesAny(t, unsafePatterns) {
		return Analysis{Confidence: 0.1, Flags: []domain.Flag{domain.FlagUnsafe}, Reason: "Unsafe or unethical request detected"}
	}
	if matchesAny(t, overbroadPatterns) {
		return Analysis{Confidence: 0.2, Flags: []domain.Flag{domain.FlagOverbroad}, Reason: "Task scope too broad for autonomous execution"}
	}

	confidence := base
	var flags []domain.Flag

	if vagueTerms.MatchString(t) || tooGeneric.MatchString(t) {
		flags = append(flags, domain.FlagVague)
		confidence = max(floor, confidence-0.3)
	}

	switch wc := len(strings.Fields(t)); {
	case wc >= 8:
		confidence += 0.2
	case wc >= 5:
		confidence += 0.1
	case wc >= 3:
		confidence += 0.05
	}

	if actionVerbs.MatchString(t) {
		confidence += 0.15
	}
	if technical.MatchString(t) {
		confidence += 0.2
	}
	if contextWords.MatchString(t) {
		confidence += 0.1
	}
	if objectives.MatchString(t) {
		confidence += 0.1
	}
	if complexity.MatchString(t) {
		confidence -= 0.15
		flags = append(flags, domain.FlagComplex)
	}

	confidence = max(floor, min(ceiling, confidence))

	return Analysis{Confidence: confidence, Flags: flags, Reason: reason(confidence, flags)}
}

func malformed(t string) bool {
	return excessivePunct.MatchString(t) || onlySymbols.MatchString(t) || len(t) < 2
}

func matchesAny(t string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(t) {
			return true
		}
	}
	return false
}

// reason picks the explanation shown to the user: first matching flag in
// severity order, then a confidence band.
func reason(confidence float64, flags []domain.Flag) string {
	for _, f := range []domain.Flag{
		domain.FlagMalformed, domain.FlagContradictory, domain.FlagUnsafe,
		domain.FlagOverbroad, domain.FlagVague, domain.FlagComplex,
	} {
		if hasFlag(flags, f) {
			switch f {
			case domain.FlagMalformed:
				return "Invalid input format"
			case domain.FlagContradictory:
				return "Contradictory requirements"
			case domain.FlagUnsafe:
				return "Unsafe request - human oversight required"
			case domain.FlagOverbroad:
				return "Scope too broad - needs constraints"
			case domain.FlagVague:
				return "Vague task - needs clarification"
			case domain.FlagComplex:
				return "Complex task - proceed cautiously"
			}
		}
	}

	switch {
	case confidence >= 0.7:
		return "Clear, specific task"
	case confidence >= 0.5:
		return "Good detail, some clarity"
	case confidence >= 0.3:
		return "Basic info, needs more detail"
	default:
		return "Low confidence - needs refinement"
	}
}

func hasFlag(flags []domain.Flag, f domain.Flag) bool {
	for _, have := range flags {
		if have == f {
			return true
		}
	}
	return false
}

// Breakdown confidence bounds. Slightly tighter than the scorer's own:
// decomposition never leaves the user fully confident, and planning never
// drops below 0.15.
const (
	breakdownFloor   = 0.15
	breakdownCeiling = 0.8
)

// BreakdownConfidence rescores task text after decomposition. Larger
// plans reveal more unknowns; a plan that is too small is probably
// incomplete. Planning itself earns a small bonus.
func BreakdownConfidence(taskText string, subtaskCount int) float64 {
	confidence := Analyze(taskText).Confidence

	switch {
	case subtaskCount >= 6:
		confidence -= 0.2
	case subtaskCount >= 4:
		confidence -= 0.1
	case subtaskCount <= 2:
		confidence -= 0.15
	}
	confidence += 0.1

	return max(breakdownFloor, min(breakdownCeiling, confidence))
}

// BreakdownReason describes the quality of a generated plan.
func BreakdownReason(confidence float64) string {
	switch {
	case confidence >= 0.6:
		return "Well-structured plan"
	case confidence >= 0.4:
		return "Plan needs refinement"
	default:
		return "Complex task, uncertain steps"
	}
}
