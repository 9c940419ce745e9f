// Package engine implements the deterministic portfolio allocation
// pipeline: questionnaire answers are scored to a 0-100 risk score,
// mapped to a strategy archetype, expanded into a fixed allocation
// table, and projected into costs and scenario returns. Every stage is
// a pure in-process computation with no I/O.
package engine

import (
	"github.com/rotisserie/eris"

	"github.com/portfolix/portfolix/internal/model"
)

const (
	numQuestions = 3
	maxAnswer    = 4
	minAnswer    = 1
)

// experienceLevels maps the experience answer (1-4) to its label.
var experienceLevels = map[int]model.ExperienceLevel{
	1: model.ExperienceBeginner,
	2: model.ExperienceBeginner,
	3: model.ExperienceIntermediate,
	4: model.ExperienceAdvanced,
}

// timelineLabels maps the timeline answer (1-4) to its label.
var timelineLabels = map[int]string{
	1: "under 3 years",
	2: "3-5 years",
	3: "5-10 years",
	4: "10+ years",
}

// ScoreAnswers computes the risk profile from a complete answer set.
// Each answer must be in [1,4]; an out-of-range or zero value is a
// validation error and blocks scoring rather than propagating an
// undefined profile downstream.
func ScoreAnswers(answers model.AnswerSet) (model.RiskProfile, error) {
	if err := validateAnswers(answers); err != nil {
		return model.RiskProfile{}, err
	}

	sum := answers.Experience + answers.Timeline + answers.Volatility
	score := float64(sum) / float64(numQuestions*maxAnswer) * 100

	return model.RiskProfile{
		Score:           score,
		ExperienceLevel: experienceLevels[answers.Experience],
		Timeline:        timelineLabels[answers.Timeline],
	}, nil
}

func validateAnswers(answers model.AnswerSet) error {
	checks := []struct {
		name  string
		value int
	}{
		{"experience", answers.Experience},
		{"timeline", answers.Timeline},
		{"volatility", answers.Volatility},
	}
	for _, c := range checks {
		if c.value == 0 {
			return eris.Errorf("engine: question %q is unanswered", c.name)
		}
		if c.value < minAnswer || c.value > maxAnswer {
			return eris.Errorf("engine: answer for %q must be between %d and %d, got %d",
				c.name, minAnswer, maxAnswer, c.value)
		}
	}
	return nil
}
