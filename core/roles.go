package core

// Tier is one approval tier of the routing chain. The order of the
// constants is the order a form walks them; a chain is complete once the
// final tier accepts.
type Tier int

const (
	TierNone Tier = iota
	TierTutor
	TierYearInCharge
	TierHOD
)

// tierCount is how many approving tiers a completed chain visits.
const tierCount = 3

func (t Tier) String() string {
	switch t {
	case TierTutor:
		return "TUTOR"
	case TierYearInCharge:
		return "YEAR_IN_CHARGE"
	case TierHOD:
		return "HOD"
	}
	return "NONE"
}

// Next returns the tier that reviews after t; ok is false when t is the
// final tier (or not a tier at all).
func (t Tier) Next() (next Tier, ok bool) {
	switch t {
	case TierTutor:
		return TierYearInCharge, true
	case TierYearInCharge:
		return TierHOD, true
	}
	return TierNone, false
}

// TierFromString parses the wire role tag; unknown tags map to TierNone.
func TierFromString(s string) Tier {
	switch s {
	case "TUTOR":
		return TierTutor
	case "YEAR_IN_CHARGE":
		return TierYearInCharge
	case "HOD":
		return TierHOD
	}
	return TierNone
}
