// Package crisis implements the crisis-keyword detector used to raise the
// in-session safety banner. Detection is lexical only: a static keyword table
// with literal obfuscation variants, plus a negative-context table that
// suppresses matches inside denial phrases. There is no semantic model.
//
// All functions are pure and safe for concurrent use; nothing here mutates
// the tables or the transcript.
package crisis

import (
	"fmt"
	"regexp"
	"strings"

	"counselhub/internal/models"
)

// Result is the outcome of classifying a message or transcript.
type Result struct {
	Detected        bool     `json:"detected"`
	MatchedKeywords []string `json:"matched_keywords"`
	Message         string   `json:"message"`
}

// Summary is the read-only projection of a transcript scan for UI consumption.
type Summary struct {
	CrisisDetected bool     `json:"crisis_detected"`
	KeywordCount   int      `json:"keyword_count"`
	Keywords       []string `json:"keywords"`
	Message        string   `json:"message"`
}

// tokenPatterns holds a precompiled word-boundary matcher for every
// single-token keyword. Phrases (entries with an embedded space) are matched
// by plain substring containment instead.
var tokenPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp)
	for _, kw := range crisisKeywords {
		if !strings.Contains(kw, " ") {
			patterns[kw] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
		}
	}
	return patterns
}()

// span is a half-open byte range [start, end) within a normalized message.
type span struct{ start, end int }

// Classify scans a single message for crisis language. It never panics:
// empty or whitespace-only input yields a definite non-crisis result.
func Classify(message string) Result {
	normalized := strings.ToLower(strings.TrimSpace(message))
	// Mobile keyboards produce curly apostrophes; the tables use straight ones.
	normalized = strings.ReplaceAll(normalized, "’", "'")
	if normalized == "" {
		return Result{Message: "no crisis language detected: empty input"}
	}

	negSpans := negativeSpans(normalized)

	var matched []string
	for _, kw := range crisisKeywords {
		var positions [][]int
		if re, ok := tokenPatterns[kw]; ok {
			positions = re.FindAllStringIndex(normalized, -1)
		} else {
			positions = substringIndexes(normalized, kw)
		}
		// A keyword counts only if at least one occurrence falls outside
		// every negative-context span. "want to die" inside "don't want to
		// die" is the speaker rejecting ideation, not expressing it.
		for _, pos := range positions {
			if !insideAny(negSpans, pos[0], pos[1]) {
				matched = append(matched, kw)
				break
			}
		}
	}

	if len(matched) > 0 {
		return Result{
			Detected:        true,
			MatchedKeywords: matched,
			Message:         "crisis language detected: " + strings.Join(matched, ", "),
		}
	}
	if len(negSpans) > 0 {
		return Result{Message: "no crisis language detected: negative context present"}
	}
	return Result{Message: "no crisis language detected"}
}

// ClassifyTranscript scans every user-spoken entry of a transcript
// independently and unions the matches. Bot/counselor entries are ignored:
// a helpline number read out by the counselor must not trip the banner.
func ClassifyTranscript(entries []models.TranscriptMessage) Result {
	seen := make(map[string]bool)
	var matched []string
	flagged := 0

	for _, entry := range entries {
		if entry.Speaker != models.SpeakerUser {
			continue
		}
		res := Classify(entry.Text)
		if !res.Detected {
			continue
		}
		flagged++
		for _, kw := range res.MatchedKeywords {
			if !seen[kw] {
				seen[kw] = true
				matched = append(matched, kw)
			}
		}
	}

	if flagged == 0 {
		return Result{Message: "no crisis language detected"}
	}
	return Result{
		Detected:        true,
		MatchedKeywords: matched,
		Message: fmt.Sprintf("crisis language detected in %d message(s): %s",
			flagged, strings.Join(matched, ", ")),
	}
}

// Summarize projects a transcript scan into the shape the session UI consumes.
func Summarize(entries []models.TranscriptMessage) Summary {
	res := ClassifyTranscript(entries)
	return Summary{
		CrisisDetected: res.Detected,
		KeywordCount:   len(res.MatchedKeywords),
		Keywords:       res.MatchedKeywords,
		Message:        res.Message,
	}
}

// negativeSpans returns every occurrence of a negative-context phrase.
func negativeSpans(normalized string) []span {
	var spans []span
	for _, phrase := range negativeContexts {
		for _, pos := range substringIndexes(normalized, phrase) {
			spans = append(spans, span{pos[0], pos[1]})
		}
	}
	return spans
}

// substringIndexes finds all non-overlapping occurrences of sub in s.
func substringIndexes(s, sub string) [][]int {
	var positions [][]int
	offset := 0
	for {
		i := strings.Index(s[offset:], sub)
		if i < 0 {
			return positions
		}
		start := offset + i
		end := start + len(sub)
		positions = append(positions, []int{start, end})
		offset = end
	}
}

// insideAny reports whether [start, end) is fully contained in one span.
func insideAny(spans []span, start, end int) bool {
	for _, sp := range spans {
		if start >= sp.start && end <= sp.end {
			return true
		}
	}
	return false
}
