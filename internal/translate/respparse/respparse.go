// Package respparse recovers per-paragraph translations (and, on the
// robust path, per-run translations) from an LLM's raw text response
// using the delimiter and marker protocols prompt defines. Parsing is a
// literal forward scan rather than a regex: the delimiters are fixed
// strings and a state machine is both cheaper and immune to the
// catastrophic-backtracking risk a loosely-written regex would carry.
package respparse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/heartmarshall/docxtranslate/internal/domain"
	"github.com/heartmarshall/docxtranslate/internal/translate/prompt"
)

// MissingPlaceholder fills any translation slot neither the primary nor
// the fallback parser could recover.
const MissingPlaceholder = "[Translation missing]"

// ParseStandard recovers n translations from response, in order. Count
// mismatches are reconciled (padded or trimmed) rather than failing the
// batch; logs records what happened for diagnostics.
func ParseStandard(response string, n int) ([]string, []string) {
	var logs []string

	payloads := extractDelimited(response)

	if len(payloads) < n {
		logs = append(logs, fmt.Sprintf("primary parser recovered %d/%d segments; trying blank-line fallback", len(payloads), n))
		if fallback := splitBlankLines(response); len(fallback) > len(payloads) {
			payloads = fallback
		}
	}

	if len(payloads) > n {
		logs = append(logs, fmt.Sprintf("parser recovered %d segments, expected %d; discarding extras", len(payloads), n))
		payloads = payloads[:n]
	}

	if len(payloads) < n {
		missing := n - len(payloads)
		logs = append(logs, fmt.Sprintf("padding %d missing translation(s) with placeholder", missing))
		for i := 0; i < missing; i++ {
			payloads = append(payloads, MissingPlaceholder)
		}
	}

	return payloads, logs
}

// ParseRobust recovers one translation payload per member (same
// reconciliation as ParseStandard), then decodes each payload's run
// markers against the RunFormatting snapshot captured when the prompt
// was built. A member whose markers could not be fully recovered gets a
// nil run-translation map; the Applier treats that as a signal to fall
// back to standard-path replacement for that paragraph.
func ParseRobust(response string, formattings [][]domain.RunFormatting) ([]string, []map[int]string, []string) {
	n := len(formattings)
	payloads, logs := ParseStandard(response, n)

	runTranslations := make([]map[int]string, n)
	for i, payload := range payloads {
		decoded, ok := decodeMarkers(payload, formattings[i])
		if !ok {
			logs = append(logs, fmt.Sprintf("segment %d: run markers could not be fully recovered; falling back to standard-path replacement", i+1))
			payloads[i] = stripMarkers(payload)
			continue
		}
		runTranslations[i] = decoded
	}

	return payloads, runTranslations, logs
}

// extractDelimited walks response left to right pulling out every
// <<<TRANSLATION_START_id>>>...<<<TRANSLATION_END_id>>> payload it finds,
// in the order they appear. The id itself is not re-validated against
// its position: a model that mislabels an id but preserves ordering
// still round-trips correctly.
func extractDelimited(response string) []string {
	var out []string
	s := response

	for {
		startIdx := strings.Index(s, prompt.DelimiterStartPrefix)
		if startIdx == -1 {
			break
		}
		afterStartPrefix := s[startIdx+len(prompt.DelimiterStartPrefix):]

		openCloseIdx := strings.Index(afterStartPrefix, prompt.DelimiterSuffix)
		if openCloseIdx == -1 {
			break
		}
		afterOpenTag := afterStartPrefix[openCloseIdx+len(prompt.DelimiterSuffix):]

		endIdx := strings.Index(afterOpenTag, prompt.DelimiterEndPrefix)
		if endIdx == -1 {
			break
		}
		payload := afterOpenTag[:endIdx]

		afterEndPrefix := afterOpenTag[endIdx+len(prompt.DelimiterEndPrefix):]
		endCloseIdx := strings.Index(afterEndPrefix, prompt.DelimiterSuffix)
		if endCloseIdx == -1 {
			out = append(out, payload)
			break
		}

		out = append(out, payload)
		s = afterEndPrefix[endCloseIdx+len(prompt.DelimiterSuffix):]
	}

	return out
}

// splitBlankLines is the fallback parser: it treats a double newline as
// a segment separator when the delimiter protocol itself failed to
// round-trip.
func splitBlankLines(response string) []string {
	blocks := strings.Split(response, "\n\n")
	var out []string
	for _, b := range blocks {
		if strings.TrimSpace(b) == "" {
			continue
		}
		out = append(out, b)
	}
	return out
}

// decodeMarkers extracts text for every expected run marker from a
// translated payload. Success requires recovering all expected runs;
// a partial match is treated as a full failure, since a mispositioned
// run boundary is worse than none at all.
func decodeMarkers(payload string, expected []domain.RunFormatting) (map[int]string, bool) {
	if len(expected) == 0 {
		return nil, false
	}

	result := make(map[int]string, len(expected))
	for _, rf := range expected {
		openTag := prompt.MarkerOpenPrefix + strconv.Itoa(rf.RunIndex) + ":"
		openIdx := strings.Index(payload, openTag)
		if openIdx == -1 {
			continue
		}
		afterOpen := payload[openIdx+len(openTag):]

		flagsCloseIdx := strings.Index(afterOpen, prompt.MarkerOpenSuffix)
		if flagsCloseIdx == -1 {
			continue
		}
		afterFlags := afterOpen[flagsCloseIdx+len(prompt.MarkerOpenSuffix):]

		closeTag := prompt.MarkerCloseOpen + strconv.Itoa(rf.RunIndex) + prompt.MarkerCloseSuffix
		closeIdx := strings.Index(afterFlags, closeTag)
		if closeIdx == -1 {
			continue
		}

		result[rf.RunIndex] = afterFlags[:closeIdx]
	}

	return result, len(result) == len(expected)
}

// stripMarkers removes every marker tag from a payload, leaving the
// enclosed text concatenated in place, for use as a standard-path
// fallback when marker recovery failed.
func stripMarkers(payload string) string {
	var b strings.Builder
	s := payload

	for {
		openIdx := strings.Index(s, prompt.MarkerOpenPrefix)
		if openIdx == -1 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:openIdx])
		afterPrefix := s[openIdx+len(prompt.MarkerOpenPrefix):]

		flagsCloseIdx := strings.Index(afterPrefix, prompt.MarkerOpenSuffix)
		if flagsCloseIdx == -1 {
			b.WriteString(s[openIdx:])
			break
		}
		afterOpenTag := afterPrefix[flagsCloseIdx+len(prompt.MarkerOpenSuffix):]

		closeIdx := strings.Index(afterOpenTag, prompt.MarkerCloseOpen)
		if closeIdx == -1 {
			b.WriteString(afterOpenTag)
			break
		}
		b.WriteString(afterOpenTag[:closeIdx])
		afterCloseOpen := afterOpenTag[closeIdx+len(prompt.MarkerCloseOpen):]

		closeSuffixIdx := strings.Index(afterCloseOpen, prompt.MarkerCloseSuffix)
		if closeSuffixIdx == -1 {
			break
		}
		s = afterCloseOpen[closeSuffixIdx+len(prompt.MarkerCloseSuffix):]
	}

	return b.String()
}
