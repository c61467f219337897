package segment

import (
	"fmt"
	"strings"
	"testing"
)

func TestRebalanceIdempotentAtTargetLength(t *testing.T) {
	s := NewSegmenter(testSegmenterConfig())

	sections := []string{"First section text here.", "Second section text here.", "Third section text here."}
	out, reason := s.Rebalance(sections, 3)

	if reason != Converged {
		t.Errorf("reason = %s, want converged", reason)
	}
	if len(out) != 3 {
		t.Fatalf("got %d sections, want 3", len(out))
	}
	for i := range sections {
		if out[i] != sections[i] {
			t.Errorf("section %d changed: %q -> %q", i, sections[i], out[i])
		}
	}
}

func TestRebalanceSplitsLongestToReachTarget(t *testing.T) {
	s := NewSegmenter(testSegmenterConfig())

	// Three paragraphs, five slides: the longest must be split twice
	// and no resulting section may be empty.
	sections := []string{
		"The first paragraph talks about our mission. It then explains the roadmap in detail. Finally it covers the team structure and hiring plans for next year.",
		"The second paragraph is about budget. We doubled revenue this year.",
		"The third paragraph wraps up. It thanks the audience for coming.",
	}

	out, reason := s.Rebalance(sections, 5)

	if reason != Converged {
		t.Fatalf("reason = %s, want converged (got %d sections)", reason, len(out))
	}
	if len(out) != 5 {
		t.Fatalf("got %d sections, want 5", len(out))
	}
	for i, sec := range out {
		if strings.TrimSpace(sec) == "" {
			t.Errorf("section %d is empty after splitting", i)
		}
	}
}

func TestRebalanceSplitsAtSentenceBoundary(t *testing.T) {
	s := NewSegmenter(testSegmenterConfig())

	sections := []string{"The opening sentence sets the scene for everyone. The closing sentence wraps the whole thing up nicely."}
	out, reason := s.Rebalance(sections, 2)

	if reason != Converged {
		t.Fatalf("reason = %s, want converged", reason)
	}
	if !strings.HasSuffix(out[0], ".") {
		t.Errorf("first half does not end at a sentence boundary: %q", out[0])
	}
	if !strings.HasPrefix(out[1], "The closing") {
		t.Errorf("second half does not start at the next sentence: %q", out[1])
	}
}

func TestRebalanceRefusesToSplitShortSections(t *testing.T) {
	s := NewSegmenter(testSegmenterConfig())

	sections := []string{"Too short to split."}
	out, reason := s.Rebalance(sections, 3)

	if reason != MinLengthReached {
		t.Errorf("reason = %s, want min_length_reached", reason)
	}
	if len(out) != 1 || out[0] != sections[0] {
		t.Errorf("sections changed despite abort: %v", out)
	}
}

func TestRebalanceMergesSmallestAdjacentPair(t *testing.T) {
	s := NewSegmenter(testSegmenterConfig())

	sections := []string{
		"A long opening section with a considerable amount of text in it.",
		"Tiny.",
		"Also tiny.",
		"A long closing section with a considerable amount of text in it.",
	}

	out, reason := s.Rebalance(sections, 3)

	if reason != Converged {
		t.Fatalf("reason = %s, want converged", reason)
	}
	if len(out) != 3 {
		t.Fatalf("got %d sections, want 3", len(out))
	}
	if !strings.Contains(out[1], "Tiny.") || !strings.Contains(out[1], "Also tiny.") {
		t.Errorf("smallest adjacent pair not merged: %v", out)
	}
}

func TestRebalanceMergeStopsAtOneSection(t *testing.T) {
	s := NewSegmenter(testSegmenterConfig())

	out, reason := s.Rebalance([]string{"Only one section remains here."}, 0)

	if reason != Converged && reason != MinLengthReached {
		t.Errorf("unexpected reason %s", reason)
	}
	if len(out) != 1 {
		t.Errorf("got %d sections, want 1", len(out))
	}
}

func TestSegmentThenRebalanceYieldsTargetCount(t *testing.T) {
	s := NewSegmenter(testSegmenterConfig())

	// Build a script with enough sentences that any slide count up to
	// six is reachable.
	var sb strings.Builder
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&sb, "Sentence number %d carries some presentation content worth saying aloud.\n\n", i+1)
	}
	script := sb.String()

	for _, n := range []int{1, 2, 3, 4, 5, 6} {
		t.Run(fmt.Sprintf("N=%d", n), func(t *testing.T) {
			result := s.Segment(script, n)
			if result.Outcome == Failed {
				t.Fatal("segmentation failed on non-empty script")
			}

			sections, _ := s.Rebalance(result.Sections, n)
			if len(sections) != n {
				t.Errorf("got %d sections, want %d", len(sections), n)
			}
			for i, sec := range sections {
				if strings.TrimSpace(sec) == "" {
					t.Errorf("section %d is empty", i)
				}
			}
		})
	}
}
