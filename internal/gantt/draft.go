package gantt

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/foundry/internal/ai"
	"github.com/nhle/foundry/internal/model"
)

// draftKinds maps the KIND column of a drafted roadmap line to a task
// rendering kind. Unknown values fall back to a plain task.
var draftKinds = map[string]model.TaskKind{
	"project":   model.KindProject,
	"task":      model.KindTask,
	"milestone": model.KindMilestone,
}

// Draft asks the provider for a roadmap and parses the response into a
// schedulable roadmap document. Lines the model got wrong are skipped;
// a response with no usable lines is an error.
func Draft(
	ctx context.Context,
	provider ai.Provider,
	title, productIdea string,
) (*model.Document, error) {
	system, user := ai.RoadmapPrompt(productIdea)
	raw, err := provider.Generate(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("generating roadmap: %w", err)
	}

	tasks := ParseDraft(raw)
	if len(tasks) == 0 {
		return nil, fmt.Errorf("roadmap draft contained no usable lines")
	}

	return &model.Document{
		Kind:        model.DocumentRoadmap,
		Title:       title,
		Description: productIdea,
		Tasks:       tasks,
	}, nil
}

// ParseDraft parses "LABEL | START | END | KIND" lines into tasks.
// Malformed lines are dropped. Drafted tasks carry generated IDs since
// they have no tracker key yet.
func ParseDraft(text string) []model.Task {
	var tasks []model.Task

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) != 4 {
			continue
		}

		label := strings.TrimSpace(fields[0])
		start, err := model.ParseDate(strings.TrimSpace(fields[1]))
		if err != nil || label == "" {
			continue
		}
		end, err := model.ParseDate(strings.TrimSpace(fields[2]))
		if err != nil {
			continue
		}
		if !end.After(start.Time) {
			end = start.AddDays(1)
		}

		kind, ok := draftKinds[strings.ToLower(strings.TrimSpace(fields[3]))]
		if !ok {
			kind = model.KindTask
		}

		tasks = append(tasks, model.Task{
			ID:           fmt.Sprintf("draft-%d", len(tasks)+1),
			Label:        label,
			Start:        start,
			End:          end,
			DurationDays: start.DaysUntil(end),
			Kind:         kind,
			Details:      model.TaskDetails{Summary: label},
		})
	}

	return tasks
}
