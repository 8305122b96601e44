package inspect

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "tree", "rules", "ids", "classes", "edit", "clear", "quit"}

// isWordBoundary reports whether r separates words for completion. Only
// blanks qualify: '#', '.' and '-' are part of selectors.
func isWordBoundary(r rune) bool {
	return r == ' ' || r == '\t'
}

// wordBounds returns the word at the cursor position and its byte
// boundaries within input. The word is empty when the cursor sits between
// blanks or at the start of a blank line.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// completions returns the fuzzy matches of word among candidates, best
// first. A word that is only a sigil ("#" or ".") lists every candidate with
// that sigil. An empty word has no matches so the hint line stays visible.
func completions(word string, candidates []string) fuzzy.Matches {
	switch word {
	case "":
		return nil

	case "#", ".":
		var matches fuzzy.Matches

		for i, c := range candidates {
			if strings.HasPrefix(c, word) {
				matches = append(matches, fuzzy.Match{Str: c, Index: i, MatchedIndexes: []int{0}})
			}
		}

		return matches
	}

	return fuzzy.Find(word, candidates)
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		last := i == len(matches)-1

		// Reserve room for the ellipsis unless this is the last candidate.
		if i > 0 && (used+entryWidth > width || (!last && used+entryWidth+ellipsisWidth > width)) {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := matchStyle

	if selected {
		baseStyle = selectedStyle
		highlightStyle = selectedMatchStyle
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}
