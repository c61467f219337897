package ai

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestExtractSectionsRoundTripsValidJSON(t *testing.T) {
	want := []string{
		"Welcome everyone to the annual review.",
		"Our revenue grew by forty percent this year.",
		"Thank you all for listening today.",
	}
	raw, err := json.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}

	got, err := ExtractSections(string(raw))
	if err != nil {
		t.Fatalf("ExtractSections() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d sections, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("section %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtractSectionsIgnoresProseWrapper(t *testing.T) {
	raw := "Here are the sections you asked for:\n[\"First section of the script goes here.\", \"Second section of the script goes here.\"]\nLet me know if you need anything else!"

	got, err := ExtractSections(raw)
	if err != nil {
		t.Fatalf("ExtractSections() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d sections, want 2: %v", len(got), got)
	}
}

func TestExtractSectionsRecoversCommentedArray(t *testing.T) {
	// Regression input: // comments and a trailing comma
	raw := `[
  // first slide
  "Welcome everyone to our quarterly review meeting.",
  /* the middle one */
  "This quarter we focused on reliability work.",
  "Thanks for your attention, questions welcome.",
]`

	got, err := ExtractSections(raw)
	if err != nil {
		t.Fatalf("ExtractSections() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d sections, want 3: %v", len(got), got)
	}
	if got[1] != "This quarter we focused on reliability work." {
		t.Errorf("section 1 = %q", got[1])
	}
}

func TestExtractSectionsReplacesPlaceholderEntries(t *testing.T) {
	raw := `["Opening remarks about the product vision.", [no content], "Closing remarks and a call to action."]`

	got, err := ExtractSections(raw)
	if err != nil {
		t.Fatalf("ExtractSections() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d sections, want 3: %v", len(got), got)
	}
	if got[1] != "" {
		t.Errorf("placeholder entry = %q, want empty string", got[1])
	}
}

func TestExtractSectionsNumberedList(t *testing.T) {
	raw := `Here is the breakdown:

1. Welcome the audience and introduce yourself briefly.
2) Walk through the quarterly numbers.
This line continues the second section.
3. Close with the roadmap for next year.

### Notes
Ignore everything after the heading.`

	got, err := ExtractSections(raw)
	if err != nil {
		t.Fatalf("ExtractSections() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d sections, want 3: %v", len(got), got)
	}
	if !strings.Contains(got[1], "continues the second section") {
		t.Errorf("continuation line not accumulated: %q", got[1])
	}
	for _, s := range got {
		if strings.Contains(s, "Ignore everything") {
			t.Errorf("text after heading leaked into sections: %q", s)
		}
	}
}

func TestExtractSectionsQuotedRuns(t *testing.T) {
	raw := `The model refused to emit JSON but said:
"Welcome everyone, this talk covers our journey this year." and later
"short one" plus
"Thank you all so much for being here today."`

	got, err := ExtractSections(raw)
	if err != nil {
		t.Fatalf("ExtractSections() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d sections, want 2 (short quote filtered): %v", len(got), got)
	}
}

func TestExtractSectionsUnparseable(t *testing.T) {
	raw := "nope"

	_, err := ExtractSections(raw)
	if err == nil {
		t.Fatal("expected an error for unparseable input")
	}

	var unparseable *UnparseableError
	if !errors.As(err, &unparseable) {
		t.Fatalf("error type = %T, want *UnparseableError", err)
	}
	if !strings.Contains(unparseable.Preview, "nope") {
		t.Errorf("preview %q does not carry the raw text", unparseable.Preview)
	}
}

func TestUnparseableErrorTruncatesPreview(t *testing.T) {
	// Fragments too short for every strategy, but plenty of raw text
	raw := strings.Repeat("xx\n\n", 300)

	_, err := ExtractSections(raw)
	var unparseable *UnparseableError
	if !errors.As(err, &unparseable) {
		t.Fatalf("error type = %T, want *UnparseableError", err)
	}
	if len(unparseable.Preview) > previewLength+3 {
		t.Errorf("preview length %d exceeds cap", len(unparseable.Preview))
	}
}

func TestExtractObject(t *testing.T) {
	type payload struct {
		Summary string   `json:"summary"`
		Tags    []string `json:"tags"`
	}

	tests := []struct {
		name    string
		raw     string
		want    payload
		wantErr bool
	}{
		{
			name: "CleanObject",
			raw:  `{"summary": "A slide about growth.", "tags": ["growth", "revenue"]}`,
			want: payload{Summary: "A slide about growth.", Tags: []string{"growth", "revenue"}},
		},
		{
			name: "ProseWrapped",
			raw:  "Sure! Here is the JSON:\n{\"summary\": \"A slide about growth.\", \"tags\": [\"growth\"]}\nHope that helps.",
			want: payload{Summary: "A slide about growth.", Tags: []string{"growth"}},
		},
		{
			name: "TrailingCommaAndComment",
			raw:  "{\n  \"summary\": \"A slide about growth.\", // short\n  \"tags\": [\"growth\",],\n}",
			want: payload{Summary: "A slide about growth.", Tags: []string{"growth"}},
		},
		{
			name:    "NoJSON",
			raw:     "there is no object here",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := ExtractObject(tt.raw, &got)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractObject() error = %v", err)
			}
			if got.Summary != tt.want.Summary {
				t.Errorf("Summary = %q, want %q", got.Summary, tt.want.Summary)
			}
			if len(got.Tags) != len(tt.want.Tags) {
				t.Errorf("Tags = %v, want %v", got.Tags, tt.want.Tags)
			}
		})
	}
}

func TestValidateSections(t *testing.T) {
	tests := []struct {
		name       string
		sections   []string
		expected   int
		minAvg     int
		wantIssues int
	}{
		{
			name:       "AllGood",
			sections:   []string{"A perfectly reasonable script section.", "Another perfectly reasonable one."},
			expected:   2,
			minAvg:     20,
			wantIssues: 0,
		},
		{
			name:       "WithinTolerance",
			sections:   []string{"A perfectly reasonable script section.", "Another perfectly reasonable one."},
			expected:   4,
			minAvg:     20,
			wantIssues: 0,
		},
		{
			name:       "CountWayOff",
			sections:   []string{"A perfectly reasonable script section."},
			expected:   6,
			minAvg:     20,
			wantIssues: 1,
		},
		{
			name:       "TooShortOnAverage",
			sections:   []string{"hi", "ok", "no"},
			expected:   3,
			minAvg:     20,
			wantIssues: 1,
		},
		{
			name:       "Empty",
			sections:   nil,
			expected:   3,
			minAvg:     20,
			wantIssues: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := ValidateSections(tt.sections, tt.expected, tt.minAvg)
			if len(issues) != tt.wantIssues {
				t.Errorf("got %d issues %v, want %d", len(issues), issues, tt.wantIssues)
			}
		})
	}
}
