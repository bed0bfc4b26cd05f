package crossref

import (
	"reflect"
	"testing"

	"github.com/nhle/foundry/internal/model"
)

func TestExtractIssueKeys(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single key",
			text: "blocked by ROAD-12",
			want: []string{"ROAD-12"},
		},
		{
			name: "dedupes preserving first occurrence",
			text: "ROAD-12 depends on APP-3, see ROAD-12 again",
			want: []string{"ROAD-12", "APP-3"},
		},
		{
			name: "ignores lowercase",
			text: "road-12 is not a key",
			want: nil,
		},
		{
			name: "no keys",
			text: "nothing to see here",
			want: nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractIssueKeys(tc.text); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAnnotate(t *testing.T) {
	doc := &model.Document{
		Kind:        model.DocumentLeanCanvas,
		Title:       "Checkout revamp",
		Description: "follows up on ROAD-7",
		Sections: []model.Section{
			{Title: "Problem", Content: "see APP-3 and ROAD-7"},
		},
	}

	Annotate(doc)

	want := []string{"ROAD-7", "APP-3"}
	if !reflect.DeepEqual(doc.IssueRefs, want) {
		t.Errorf("IssueRefs = %v, want %v", doc.IssueRefs, want)
	}
}
