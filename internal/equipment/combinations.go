package equipment

import (
	"strconv"
	"strings"
)

// Datasheet line labels that carry the stage and throw indices. Vendors emit
// either the long tabular form ("Stage number at (HE/CE) 1/1 2/2 ...",
// "Frame Ext/Cyl. Bore #/IN 1/26.500 3/26.500 ...") or the short form
// ("Stage Data: 1 --- 2 3", "Cylinder Data: Throw 1 Throw 3 ...").
var (
	stageLabels = []string{"stage number at (he/ce)", "stage data"}
	throwLabels = []string{"frame ext/cyl. bore", "cylinder data"}
)

// DiscoverCombinations parses the stage-index line and the throw-index line of
// a datasheet and pairs them positionally into "stage {i}->throw {j}" strings,
// preserving source order. A "---" stage token repeats the last explicit stage.
// If either line is absent, or the two lines carry a different number of
// entries, no combinations are returned and the caller degrades to a single
// pass.
func DiscoverCombinations(text string) []string {
	stages := parseStageLine(findLabeledLine(text, stageLabels))
	throws := parseThrowLine(findLabeledLine(text, throwLabels))
	if len(stages) == 0 || len(stages) != len(throws) {
		return nil
	}

	// A stage/throw pair names one physical cylinder end, so a repeated pair
	// is datasheet noise. Deduplicating also keeps the values unique, which
	// the value-based Advance needs to terminate.
	seen := make(map[string]bool, len(stages))
	combos := make([]string, 0, len(stages))
	for i := range stages {
		combo := "stage " + stages[i] + "->throw " + throws[i]
		if seen[combo] {
			continue
		}
		seen[combo] = true
		combos = append(combos, combo)
	}
	return combos
}

// Advance returns the combination immediately following current, or "" when
// current is absent, last, or the sequence is empty — the loop's termination
// signal.
func Advance(combinations []string, current string) string {
	for i, c := range combinations {
		if c == current && i < len(combinations)-1 {
			return combinations[i+1]
		}
	}
	return ""
}

// HasMore reports whether Advance would return a combination.
func HasMore(combinations []string, current string) bool {
	return Advance(combinations, current) != ""
}

// SanitizeName turns a combination identifier into a filesystem-safe artifact
// name: "stage 1->throw 3" becomes "stage_1_throw_3".
func SanitizeName(combination string) string {
	s := strings.ReplaceAll(combination, "->", "_")
	return strings.ReplaceAll(s, " ", "_")
}

// findLabeledLine returns the remainder of the first line whose content starts
// with one of the labels (case-insensitive), with any separating colon removed.
func findLabeledLine(text string, labels []string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		for _, label := range labels {
			if strings.HasPrefix(lower, label) {
				rest := trimmed[len(label):]
				rest = strings.TrimLeft(rest, ": \t")
				return rest
			}
		}
	}
	return ""
}

// parseStageLine extracts one stage index per column. Tokens are either a bare
// integer, an "HE/CE" pair like "1/1" (the part before the slash counts), or
// "---" meaning "same stage as the previous column". A repeat marker with no
// preceding explicit stage makes the whole line unusable.
func parseStageLine(rest string) []string {
	if rest == "" {
		return nil
	}
	var stages []string
	last := ""
	for _, tok := range strings.Fields(rest) {
		switch {
		case tok == "---":
			if last == "" {
				return nil
			}
			stages = append(stages, last)
		case strings.Contains(tok, "/"):
			n, ok := integerPart(tok[:strings.Index(tok, "/")])
			if !ok {
				continue
			}
			stages = append(stages, n)
			last = n
		default:
			n, ok := integerPart(tok)
			if !ok {
				continue
			}
			stages = append(stages, n)
			last = n
		}
	}
	return stages
}

// parseThrowLine extracts one throw index per column. Tokens are either
// "throw/bore" pairs like "1/26.500" (the part before the slash counts; unit
// tokens like "#/IN" are skipped) or "Throw N" word pairs.
func parseThrowLine(rest string) []string {
	if rest == "" {
		return nil
	}
	var throws []string
	toks := strings.Fields(rest)
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		if idx := strings.Index(tok, "/"); idx >= 0 {
			if n, ok := integerPart(tok[:idx]); ok {
				throws = append(throws, n)
			}
			continue
		}
		if strings.EqualFold(tok, "throw") && i+1 < len(toks) {
			if n, ok := integerPart(toks[i+1]); ok {
				throws = append(throws, n)
				i++
			}
		}
	}
	return throws
}

func integerPart(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if _, err := strconv.Atoi(s); err != nil {
		return "", false
	}
	return s, true
}
