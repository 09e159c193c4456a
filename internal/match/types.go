// Package match implements the Olympic-round set-point state machine for
// solo (1v1) and team (3v3) matches. The engine is a pure full-recompute:
// every arrow edit re-evaluates the whole match from set 1, so late
// corrections can legitimately change an already-decided outcome.
package match

// Kind distinguishes the two match formats.
type Kind string

const (
	KindSolo Kind = "solo"
	KindTeam Kind = "team"
)

// Side identifies one of the two sides of a match.
type Side int

const (
	SideNone Side = 0
	SideA    Side = 1
	SideB    Side = 2
)

// Status is the derived state of a match.
type Status string

const (
	StatusInProgress      Status = "IN_PROGRESS"
	StatusShootOffPending Status = "SHOOT_OFF_PENDING"
	StatusAwaitingJudge   Status = "SHOOT_OFF_TIED_AWAITING_JUDGE"
	StatusDecided         Status = "DECIDED"
)

// Format captures the per-kind scoring parameters.
type Format struct {
	Kind           Kind
	RegularSets    int // best-of sets before a shoot-off
	ArrowsPerSet   int // arrow slots per side per regular set
	ShootOffArrows int // arrow slots per side in the shoot-off
	Threshold      int // cumulative set points needed to win
	ArchersPerSide int
}

// SoloFormat: best of 5 sets, 3 arrows each, first to 6 set points.
func SoloFormat() Format {
	return Format{
		Kind:           KindSolo,
		RegularSets:    5,
		ArrowsPerSet:   3,
		ShootOffArrows: 1,
		Threshold:      6,
		ArchersPerSide: 1,
	}
}

// TeamFormat: best of 4 sets, 3 archers x 2 ends each, first to 5.
// Team set tokens are archer-major: archer i owns slots [i*2, i*2+1].
func TeamFormat() Format {
	return Format{
		Kind:           KindTeam,
		RegularSets:    4,
		ArrowsPerSet:   6,
		ShootOffArrows: 3,
		Threshold:      5,
		ArchersPerSide: 3,
	}
}

// FormatFor returns the format for a kind, defaulting to solo.
func FormatFor(kind Kind) Format {
	if kind == KindTeam {
		return TeamFormat()
	}
	return SoloFormat()
}

// Set holds both sides' arrow tokens for one set. Number is 1-based;
// the shoot-off uses RegularSets+1.
type Set struct {
	Number int      `json:"number"`
	A      []string `json:"a"`
	B      []string `json:"b"`
}

// Tokens returns the given side's slots.
func (s *Set) Tokens(side Side) []string {
	if side == SideB {
		return s.B
	}
	return s.A
}

// SetResult is the derived scoring of one set.
type SetResult struct {
	Number   int  `json:"number"`
	TotalA   int  `json:"total_a"`
	TotalB   int  `json:"total_b"`
	Complete bool `json:"complete"`
	PointsA  int  `json:"points_a"`
	PointsB  int  `json:"points_b"`
	// Counted is false for sets evaluated after the match was already
	// decided: their totals still display but never move the match score.
	Counted bool `json:"counted"`
}

// State is the full state of one running match. Arrow tokens are the only
// inputs; everything under "derived" is recomputed by Evaluate and must
// not be written directly.
type State struct {
	Format      Format `json:"format"`
	Sets        []Set  `json:"sets"`
	ShootOff    Set    `json:"shoot_off"`
	JudgeWinner Side   `json:"judge_winner"`

	// derived
	Status     Status      `json:"status"`
	Winner     Side        `json:"winner"`
	PointsA    int         `json:"points_a"`
	PointsB    int         `json:"points_b"`
	SetResults []SetResult `json:"set_results"`
	// ShootOffResult mirrors SetResults for the shoot-off set; Counted is
	// true once both sides have shot.
	ShootOffResult SetResult `json:"shoot_off_result"`
}

// New returns an empty match state for the given format, evaluated once so
// the derived fields are populated.
func New(format Format) *State {
	st := &State{Format: format}
	st.Sets = make([]Set, format.RegularSets)
	for i := range st.Sets {
		st.Sets[i] = Set{
			Number: i + 1,
			A:      make([]string, format.ArrowsPerSet),
			B:      make([]string, format.ArrowsPerSet),
		}
	}
	st.ShootOff = Set{
		Number: format.RegularSets + 1,
		A:      make([]string, format.ShootOffArrows),
		B:      make([]string, format.ShootOffArrows),
	}
	Evaluate(st)
	return st
}

// Decided reports whether the match has a winner.
func (st *State) Decided() bool {
	return st.Status == StatusDecided
}
