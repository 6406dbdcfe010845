package matching

type Config struct {
	// Search radius of the distance and route proximity stages, metres
	MatchRadius float64 `yaml:"match_radius" validate:"gt=0"`

	// Relative distance disambiguation: the runner-up must be at least this far away...
	MinSecondDistance float64 `yaml:"min_second_distance" validate:"gte=0"`
	// ...and at least this many times further away than the nearest candidate
	MinDistanceRatio float64 `yaml:"min_distance_ratio" validate:"gte=1"`

	// A stop without a counterpart inside this radius is isolated, metres
	IsolationRadius float64 `yaml:"isolation_radius" validate:"gt=0"`
}

func DefaultConfig() Config {
	return Config{
		MatchRadius:       50,
		MinSecondDistance: 10,
		MinDistanceRatio:  4,
		IsolationRadius:   50,
	}
}
