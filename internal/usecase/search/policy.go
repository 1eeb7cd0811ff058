package search

// IntentRule refines candidate content when the query matches.
// A rule fires either on a query prefix (the text after the prefix becomes the
// entity to match sentences against) or on any of QueryTriggers appearing as a
// substring of the lowercased query (sentences are then matched against the
// fixed Keywords list). The first matching rule wins.
type IntentRule struct {
	Name          string
	QueryPrefix   string
	QueryTriggers []string
	Keywords      []string
}

// BoostRule adds Bonus to a result's similarity when its refined content
// contains any of Terms (case-insensitive). One bonus per rule, additive
// across rules.
type BoostRule struct {
	Name  string
	Terms []string
	Bonus float64
}

// Policy pins every ranking constant in one place so behavior is centrally
// tunable and testable instead of scattered across inline conditionals.
type Policy struct {
	// Threshold discards results whose final similarity is at or below this
	// value. Lower threshold: higher recall, lower precision.
	Threshold float64

	// MinWords drops results whose content has MinWords words or fewer.
	// Zero disables the filter.
	MinWords int

	Intents []IntentRule
	Boosts  []BoostRule
}

// DefaultPolicy returns the canonical ranking policy: threshold 30, no
// minimum-length filter, question-answering intent rules with role-term and
// action-verb boosts.
func DefaultPolicy() Policy {
	return Policy{
		Threshold: 30,
		MinWords:  0,
		Intents: []IntentRule{
			{
				Name:        "who-is",
				QueryPrefix: "who is ",
			},
			{
				Name:          "work-examples",
				QueryTriggers: []string{"example", "work"},
				Keywords: []string{
					"developed", "created", "designed", "implemented",
					"built", "led", "worked", "project",
				},
			},
			{
				Name:          "experience",
				QueryTriggers: []string{"experience", "background"},
				Keywords: []string{
					"experience", "worked", "years", "engineer",
					"developer", "role", "career",
				},
			},
		},
		Boosts: []BoostRule{
			{
				Name: "role-terms",
				Terms: []string{
					"engineer", "developer", "scientist", "architect",
					"designer", "manager", "analyst", "researcher",
				},
				Bonus: 15,
			},
			{
				Name: "action-verbs",
				Terms: []string{
					"developed", "created", "designed", "implemented",
					"built", "led",
				},
				Bonus: 10,
			},
		},
	}
}
