package model

import "math"

// FrameTick is the duration of one tracking frame in seconds.
const FrameTick = 0.1

// Side represents which unit a player lines up with.
type Side int

const (
	SideUnknown Side = 0
	SideOffense Side = 1
	SideDefense Side = 2
)

func (s Side) String() string {
	switch s {
	case SideOffense:
		return "Offense"
	case SideDefense:
		return "Defense"
	default:
		return "?"
	}
}

// ParseSide maps the tracking files' player_side column to a Side.
func ParseSide(s string) Side {
	switch s {
	case "Offense":
		return SideOffense
	case "Defense":
		return SideDefense
	default:
		return SideUnknown
	}
}

// ---- Raw tracking rows ----

// Frame is one player's recorded kinematic state at one instant of a play.
// Frames for a given (GameID, PlayID, PlayerID) are ordered by FrameID; the
// minimum FrameID is the snap, the maximum is the throw.
type Frame struct {
	GameID   string
	PlayID   int
	PlayerID int
	FrameID  int

	PlayerName string
	Position   string // role string: WR, CB, FS, ...
	Side       Side
	Week       string

	X, Y   float64
	Speed  float64 // s column, yards/s
	Accel  float64 // a column, yards/s²
	Dir    float64 // movement direction, degrees [0,360)
	Orient float64 // body orientation, degrees [0,360)

	// Constant across all frames of a play.
	BallLandX, BallLandY float64
	AbsoluteYardline     float64 // line of scrimmage
}

// PlayerPlayKey identifies one player's participation in one play.
type PlayerPlayKey struct {
	GameID   string
	PlayID   int
	PlayerID int
}

// PlayKey identifies a single play.
type PlayKey struct {
	GameID string
	PlayID int
}

// Key returns the frame's (game, play, player) grouping key.
func (f *Frame) Key() PlayerPlayKey {
	return PlayerPlayKey{GameID: f.GameID, PlayID: f.PlayID, PlayerID: f.PlayerID}
}

// PlayKey returns the frame's (game, play) grouping key.
func (f *Frame) PlayKey() PlayKey {
	return PlayKey{GameID: f.GameID, PlayID: f.PlayID}
}

// ---- Engineered per-frame rows ----

// FrameFeatures is a Frame projected into the engineered feature space.
// Per-frame columns vary frame to frame; group columns hold per-(game,play,
// player) summaries broadcast onto every frame of the group, so collapsing to
// play level is a "first row per group" selection.
type FrameFeatures struct {
	Frame

	// Spatial (per frame).
	DistToTarget   float64
	DistFromLOS    float64
	DistFromCenter float64
	NearHash       bool
	NearSideline   bool

	// Directional (per frame).
	AngleToBall     float64
	DirAlignment    float64
	OrientAlignment float64
	BodyControl     float64
	GoodDirAlign    bool

	// Temporal (per frame, order-sensitive).
	DistChange        float64 // NaN on the group's first frame
	ClosingRate       float64
	ClosingRateSmooth float64
	Reacting          bool

	// Kinematic group columns.
	AvgSpeed, MaxSpeed, MinSpeed, StdSpeed float64
	AvgAccel, MaxAccel, StdAccel           float64
	SpeedAtThrow, AccelAtThrow             float64

	// Directional group columns.
	AvgDirAlignment    float64
	AvgOrientAlignment float64
	AvgBodyControl     float64
	PctGoodDirAlign    float64

	// Temporal group columns.
	AvgClosingRate      float64
	ReactionFrameMin    float64 // NaN if the player never reacts
	InitialDistToTarget float64
	MinDistToTarget     float64

	// Post-throw group columns (NaN when no post-throw data is available).
	PostThrowDistance    float64
	FinalProximity       float64
	InitialPostProximity float64
	ConvergenceDistance  float64
	NumPostFrames        float64
}

// ---- Play-level rows ----

// PlayerPlay is one row summarizing a single player's behavior across one
// play: the first frame's value of every retained column, which the group
// broadcasts above made constant within the group.
type PlayerPlay struct {
	GameID   string
	PlayID   int
	PlayerID int

	PlayerName    string
	Position      string
	PositionGroup string // derived label, e.g. "safeties" / "cornerbacks"
	Side          Side
	Week          string

	// Context (joined from the supplementary play table).
	PassResult       string
	TargetRoute      string
	CoverageType     string
	CoverageManZone  string
	Down             int
	YardsToGo        int
	Quarter          int
	BallLandX        float64
	BallLandY        float64
	AbsoluteYardline float64

	// Engineered features.
	InitialDistToTarget float64
	MinDistToTarget     float64
	AvgSpeed            float64
	MaxSpeed            float64
	MinSpeed            float64
	StdSpeed            float64
	SpeedAtThrow        float64
	AccelAtThrow        float64
	AvgAccel            float64
	MaxAccel            float64
	StdAccel            float64
	AvgDirAlignment     float64
	AvgOrientAlignment  float64
	AvgBodyControl      float64
	PctGoodDirAlign     float64
	AvgClosingRate      float64
	ReactionFrameMin    float64

	// Post-throw features.
	PostThrowDistance   float64
	FinalProximity      float64
	ConvergenceDistance float64
	NumPostFrames       float64
}

// ReactionTime returns the reaction frame expressed in seconds, or NaN if the
// player never reacted.
func (p *PlayerPlay) ReactionTime() float64 {
	if math.IsNaN(p.ReactionFrameMin) {
		return math.NaN()
	}
	return p.ReactionFrameMin * FrameTick
}

// ---- Play context ----

// PlayContext is the supplementary per-play metadata, keyed by (game, play),
// many-to-one with PlayerPlay rows.
type PlayContext struct {
	GameID string
	PlayID int

	PassResult      string
	TargetRoute     string // empty when no receiver was targeted
	PossessionTeam  string
	CoverageType    string
	CoverageManZone string
	Down            int
	YardsToGo       int
	Quarter         int
	PassLength      float64
	YardsGained     float64
	TimeToThrow     float64 // max frame id × FrameTick, seconds
}

// Targeted reports whether the play has a targeted-receiver route label.
func (c *PlayContext) Targeted() bool {
	return c.TargetRoute != ""
}

// ---- Separation records ----

// SeparationRecord is one row per targeted play: the presumed target receiver,
// the nearest defender at throw and at snap, and coverage density counts.
type SeparationRecord struct {
	GameID string
	PlayID int
	Route  string

	ReceiverID       int
	ReceiverName     string
	ReceiverPosition string
	ReceiverX        float64 // at throw
	ReceiverY        float64

	NearestDefenderID       int
	NearestDefenderName     string
	NearestDefenderPosition string

	SeparationAtThrow float64
	CoverageCushion   float64 // separation at snap; NaN if unobservable
	SeparationChange  float64 // throw - snap; NaN when cushion is NaN

	DefendersWithin3yd int
	DefendersWithin5yd int

	ThrowFrameID int
}

// ---- Post-throw aggregates ----

// PostAggregate summarizes a player's post-throw movement in one play:
// first/last/mean positions over the post-throw frames.
type PostAggregate struct {
	Key PlayerPlayKey

	FirstX, FirstY float64
	LastX, LastY   float64
	MeanX, MeanY   float64
	FrameCount     int
}

// ---- Receiver target counts ----

// ReceiverTargets counts how often a receiver was the presumed target for one
// possession team.
type ReceiverTargets struct {
	PlayerName     string
	Position       string
	PossessionTeam string
	Targets        int
}
