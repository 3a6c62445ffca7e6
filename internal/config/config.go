// Package config defines the pipeline configuration. All thresholds, window
// sizes, and column lists live here and are passed explicitly into each
// component; nothing reads configuration ambiently.
package config

// Config contains the full pipeline configuration.
type Config struct {
	Data       DataConfig       `koanf:"data"`
	Features   FeaturesConfig   `koanf:"features"`
	Separation SeparationConfig `koanf:"separation"`
	Filters    FiltersConfig    `koanf:"filters"`
	Analysis   AnalysisConfig   `koanf:"analysis"`

	// RetainColumns is the play-level export allow-list. Columns not named
	// here are dropped when writing the play-level CSV.
	RetainColumns []string `koanf:"retain_columns"`
}

// DataConfig locates the input files and the output directory.
type DataConfig struct {
	TrainDir          string `koanf:"train_dir"`
	InputPattern      string `koanf:"input_pattern"`
	PostPattern       string `koanf:"post_pattern"`
	SupplementaryFile string `koanf:"supplementary_file"`
	OutputDir         string `koanf:"output_dir"`
}

// FeaturesConfig tunes the feature-engineering stages.
type FeaturesConfig struct {
	Spatial     SpatialConfig     `koanf:"spatial"`
	Kinematic   KinematicConfig   `koanf:"kinematic"`
	Directional DirectionalConfig `koanf:"directional"`
	Temporal    TemporalConfig    `koanf:"temporal"`
}

// SpatialConfig holds field geometry for the spatial features.
type SpatialConfig struct {
	FieldWidth     float64 `koanf:"field_width"`
	HashWidth      float64 `koanf:"hash_width"`
	SidelineMargin float64 `koanf:"sideline_margin"`
}

// KinematicConfig selects which summary statistics to compute over the speed
// and acceleration series. Recognized metrics: mean, max, min, std.
type KinematicConfig struct {
	SpeedMetrics        []string `koanf:"speed_metrics"`
	AccelerationMetrics []string `koanf:"acceleration_metrics"`
	AtThrow             bool     `koanf:"at_throw"`
}

// DirectionalConfig tunes the alignment features.
type DirectionalConfig struct {
	// AlignmentThreshold is the dir-alignment angle (degrees) under which a
	// frame counts as well-aligned.
	AlignmentThreshold float64 `koanf:"alignment_threshold"`
}

// TemporalConfig tunes the closing-rate and reaction heuristics.
type TemporalConfig struct {
	// ReactionWindow is the trailing moving-average window (frames) applied
	// to the closing rate before thresholding.
	ReactionWindow int `koanf:"reaction_window"`
	// ReactionThreshold is the smoothed closing rate (yards/frame) above
	// which a player counts as reacting.
	ReactionThreshold float64 `koanf:"reaction_threshold"`
}

// SeparationConfig tunes the nearest-defender separation finder.
type SeparationConfig struct {
	// EligiblePositions is the allow-list of offensive skill positions that
	// can be selected as the presumed target receiver.
	EligiblePositions []string `koanf:"eligible_positions"`
	TightRadius       float64  `koanf:"tight_radius"`
	LooseRadius       float64  `koanf:"loose_radius"`
}

// FiltersConfig restricts which rows enter the play-level dataset and labels
// position groups for the analysis layer.
type FiltersConfig struct {
	PlayerSide          string   `koanf:"player_side"`
	SafetyPositions     []string `koanf:"safety_positions"`
	CornerbackPositions []string `koanf:"cornerback_positions"`
}

// AnalysisConfig tunes the hypothesis-testing layer.
type AnalysisConfig struct {
	Alpha float64 `koanf:"alpha"`
}

// New returns a Config populated with defaults. Field geometry matches a
// regulation field in yards; thresholds match the published experiment.
func New() *Config {
	return &Config{
		Data: DataConfig{
			TrainDir:          "data/raw/train",
			InputPattern:      "input_*_w*.csv",
			PostPattern:       "output_*_w*.csv",
			SupplementaryFile: "data/raw/supplementary_data.csv",
			OutputDir:         "data/processed",
		},
		Features: FeaturesConfig{
			Spatial: SpatialConfig{
				FieldWidth:     53.3,
				HashWidth:      18.9,
				SidelineMargin: 10.0,
			},
			Kinematic: KinematicConfig{
				SpeedMetrics:        []string{"mean", "max", "min", "std"},
				AccelerationMetrics: []string{"mean", "max", "std"},
				AtThrow:             true,
			},
			Directional: DirectionalConfig{AlignmentThreshold: 15.0},
			Temporal: TemporalConfig{
				ReactionWindow:    5,
				ReactionThreshold: 0.5,
			},
		},
		Separation: SeparationConfig{
			EligiblePositions: []string{"WR", "TE", "RB", "FB"},
			TightRadius:       3.0,
			LooseRadius:       5.0,
		},
		Filters: FiltersConfig{
			PlayerSide:          "Defense",
			SafetyPositions:     []string{"FS", "SS", "S"},
			CornerbackPositions: []string{"CB", "DB"},
		},
		Analysis: AnalysisConfig{Alpha: 0.05},
		RetainColumns: []string{
			"game_id", "play_id", "player_id", "player_name", "player_position",
			"position_group", "week", "pass_result", "target_route",
			"team_coverage_type", "team_coverage_man_zone",
			"down", "yards_to_go", "quarter",
			"ball_land_x", "ball_land_y", "absolute_yardline_number",
			"initial_dist_to_ball", "min_dist_to_ball",
			"avg_speed", "max_speed", "min_speed", "std_speed",
			"speed_at_throw", "accel_at_throw",
			"avg_accel", "max_accel", "std_accel",
			"avg_dir_alignment", "avg_orient_alignment", "avg_body_control",
			"pct_good_dir_alignment",
			"avg_closing_rate", "reaction_frame_min",
			"post_throw_distance", "final_proximity_to_ball",
			"convergence_distance", "num_post_frames",
		},
	}
}

// PositionGroup labels a defensive position per the configured groups.
// Returns "" for positions outside both groups.
func (f *FiltersConfig) PositionGroup(position string) string {
	for _, p := range f.SafetyPositions {
		if p == position {
			return "safeties"
		}
	}
	for _, p := range f.CornerbackPositions {
		if p == position {
			return "cornerbacks"
		}
	}
	return ""
}
