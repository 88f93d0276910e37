package interest

// Action types the engagement pipeline reports. Anything else falls back to
// defaultWeight.
const (
	ActionView30s      = "view_30s"
	ActionView10s      = "view_10s"
	ActionLike         = "like"
	ActionUnlike       = "unlike"
	ActionComment      = "comment"
	ActionShare        = "share"
	ActionSave         = "save"
	ActionClickProfile = "click_profile"
)

const defaultWeight = 1.0

// actionWeights maps an interaction type to its base interest-score delta
var actionWeights = map[string]float64{
	ActionView30s:      1.0,
	ActionLike:         1.0,
	ActionComment:      2.0,
	ActionShare:        3.0,
	ActionSave:         2.0,
	ActionView10s:      0.5,
	ActionClickProfile: 1.5,
}

// ActionWeight returns the base weight for an action type. An unlike reverses
// the like weight so withdrawn engagement pulls the score back down.
func ActionWeight(actionType string) float64 {
	if actionType == ActionUnlike {
		return -actionWeights[ActionLike]
	}
	if w, ok := actionWeights[actionType]; ok {
		return w
	}
	return defaultWeight
}

// dampingFactor implements the diminishing-returns bands: the stronger an
// interest already is, the less a new interaction moves it. This keeps one
// tag from running away with a user's profile.
func dampingFactor(currentScore float64) float64 {
	switch {
	case currentScore < 3.0:
		return 1.0
	case currentScore < 6.0:
		return 0.7
	case currentScore < 9.0:
		return 0.4
	default:
		return 0.1
	}
}

const (
	// MaxScore caps every interest score
	MaxScore = 10.0
	// MinScore is the floor; scores never go negative
	MinScore = 0.0
)

// nextScore applies one interaction to a current score: damp the weight by
// the band the score sits in, add, clamp to [MinScore, MaxScore].
func nextScore(current, weight float64) float64 {
	adjusted := weight * dampingFactor(current)
	score := current + adjusted
	if score > MaxScore {
		return MaxScore
	}
	if score < MinScore {
		return MinScore
	}
	return score
}
