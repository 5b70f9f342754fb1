// Package gating decides whether a content block is withheld from a user's
// rendered view. Graded, scored content is reserved for learners on a paid
// track; everything else stays visible to everyone.
package gating

// Input carries every fact the decision depends on, prefetched by the
// caller. The decision is a pure function of these fields.
type Input struct {
	ElevatedRole      bool    // course team, org team or global staff
	InHoldback        bool    // user held back from the gating experiment
	ConfigActive      bool    // gating config enabled and past its start date
	OverrideGroups    []int   // groups granted on the gating partition for this block
	Graded            bool    // block counts toward the grade
	HasScore          bool    // block produces a score
	Weight            float64 // block grade weight
	CourseHasPaidMode bool    // course offers at least one paid track
	PaidTrack         bool    // user's enrollment track is paid
}

// Gated applies the decision precedence, first match wins. True means the
// content is withheld and the caller must substitute the paywall fragment
// (or a not-found response for direct handler calls).
func Gated(in Input) bool {
	switch {
	case in.ElevatedRole:
		// Course teams and global staff never lose access to graded content.
		return false
	case in.InHoldback:
		// Holdback users have the feature disabled entirely.
		return false
	case !in.ConfigActive:
		return false
	case len(in.OverrideGroups) > 0:
		// An explicit partition override exempts the block for everyone.
		return false
	case !(in.Graded && in.HasScore && in.Weight > 0):
		// Only graded, scored, weighted content is ever gated.
		return false
	case !in.CourseHasPaidMode:
		// Nothing to upsell in a course with only free tracks.
		return false
	case in.PaidTrack:
		return false
	}
	return true
}
