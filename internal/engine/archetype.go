package engine

import "github.com/portfolix/portfolix/internal/model"

// threshold is one row of the archetype partition: scores at or below
// Max (inclusive) select Archetype.
type threshold struct {
	Max       float64
	Archetype model.Archetype
}

// archetypeThresholds is the single canonical threshold table. Every
// call site that buckets a risk score reads from it; there is no
// second scheme. Boundary scores go to the lower bucket.
var archetypeThresholds = []threshold{
	{25, model.ArchetypeConservative},
	{50, model.ArchetypeModerate},
	{75, model.ArchetypeGrowth},
}

// SelectArchetype maps a risk score to its strategy archetype. Scores
// above the last threshold are aggressive, so the partition covers all
// of [0,100] (and is total for any float input).
func SelectArchetype(riskScore float64) model.Archetype {
	for _, t := range archetypeThresholds {
		if riskScore <= t.Max {
			return t.Archetype
		}
	}
	return model.ArchetypeAggressive
}
