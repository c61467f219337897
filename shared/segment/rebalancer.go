package segment

import "strings"

// TerminationReason explains why a rebalancing pass stopped.
type TerminationReason int

const (
	// Converged means the section count now equals the target.
	Converged TerminationReason = iota
	// MinLengthReached means the best split candidate was too short to
	// divide without producing a degenerate half.
	MinLengthReached
	// MaxDepthReached means the iteration budget ran out; the returned
	// sections are best effort.
	MaxDepthReached
)

func (r TerminationReason) String() string {
	switch r {
	case Converged:
		return "converged"
	case MinLengthReached:
		return "min_length_reached"
	case MaxDepthReached:
		return "max_depth_reached"
	default:
		return "unknown"
	}
}

var sentenceMarkers = []string{". ", "! ", "? ", ".\n", "!\n", "?\n"}

// Rebalance adjusts sections toward exactly target entries by splitting
// the longest or merging the shortest adjacent pair. The count in the
// returned slice is advisory: callers must not assume it equals target.
func (s *Segmenter) Rebalance(sections []string, target int) ([]string, TerminationReason) {
	if target < 1 || len(sections) == target {
		return sections, Converged
	}

	out := make([]string, len(sections))
	copy(out, sections)

	for depth := 0; depth < s.cfg.MaxRebalanceDepth; depth++ {
		if len(out) == target {
			return out, Converged
		}
		if len(out) < target {
			idx := longestIndex(out)
			if len(out[idx]) < s.cfg.MinSplitChars {
				return out, MinLengthReached
			}
			first, second, ok := splitNearMidpoint(out[idx])
			if !ok {
				return out, MinLengthReached
			}
			out = append(out[:idx+1], append([]string{second}, out[idx+1:]...)...)
			out[idx] = first
		} else {
			if len(out) == 1 {
				return out, MinLengthReached
			}
			idx := smallestAdjacentPair(out)
			out[idx] = out[idx] + "\n\n" + out[idx+1]
			out = append(out[:idx+1], out[idx+2:]...)
		}
	}

	if len(out) == target {
		return out, Converged
	}
	return out, MaxDepthReached
}

func longestIndex(sections []string) int {
	best := 0
	for i, s := range sections {
		if len(s) > len(sections[best]) {
			best = i
		}
	}
	return best
}

func smallestAdjacentPair(sections []string) int {
	best := 0
	bestLen := len(sections[0]) + len(sections[1])
	for i := 1; i < len(sections)-1; i++ {
		if l := len(sections[i]) + len(sections[i+1]); l < bestLen {
			best, bestLen = i, l
		}
	}
	return best
}

// splitNearMidpoint cuts text close to its middle, preferring the
// sentence boundary nearest the midpoint and falling back to the
// nearest word boundary. Returns ok=false when either half would be
// empty.
func splitNearMidpoint(text string) (string, string, bool) {
	mid := len(text) / 2

	cut := -1
	bestDist := len(text)
	for _, marker := range sentenceMarkers {
		from := 0
		for {
			idx := strings.Index(text[from:], marker)
			if idx < 0 {
				break
			}
			pos := from + idx + 1 // split just after the punctuation
			if d := abs(pos - mid); d < bestDist {
				cut, bestDist = pos, d
			}
			from += idx + 1
		}
	}

	if cut < 0 {
		// No sentence boundary, use the space nearest the midpoint
		left := strings.LastIndex(text[:mid], " ")
		right := strings.Index(text[mid:], " ")
		switch {
		case left < 0 && right < 0:
			return "", "", false
		case left < 0:
			cut = mid + right
		case right < 0:
			cut = left
		case mid-left <= right:
			cut = left
		default:
			cut = mid + right
		}
	}

	first := strings.TrimSpace(text[:cut])
	second := strings.TrimSpace(text[cut:])
	if first == "" || second == "" {
		return "", "", false
	}
	return first, second, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
