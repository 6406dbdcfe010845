package problems

type Config struct {
	// Distances above this are always reported, at the lowest priority
	MinorDistance float64 `yaml:"minor_distance" validate:"gte=0"`
	// Distances above this are a problem in their own right
	Distance float64 `yaml:"distance" validate:"gtefield=MinorDistance"`
	// Distances above this are severe for operators other than the primary one
	SevereDistance float64 `yaml:"severe_distance" validate:"gtefield=Distance"`

	// An unmatched stop with no counterpart inside this radius is high priority
	FarRadius float64 `yaml:"far_radius" validate:"gt=0"`
	// An unmatched stop with no counterpart inside this radius is at least medium priority.
	// Loaded configs copy it from the matching isolation radius.
	IsolationRadius float64 `yaml:"-" validate:"gt=0"`

	// Operator whose distance problems are held to the lowest priority
	PrimaryOperator string `yaml:"primary_operator" validate:"required"`
}

func DefaultConfig() Config {
	return Config{
		MinorDistance:   15,
		Distance:        25,
		SevereDistance:  80,
		FarRadius:       80,
		IsolationRadius: 50,
		PrimaryOperator: "SBB",
	}
}
