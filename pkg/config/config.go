package config

import (
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/travigo/stopmatch/pkg/matching"
	"github.com/travigo/stopmatch/pkg/problems"
	"github.com/travigo/stopmatch/pkg/util"
	"gopkg.in/yaml.v3"
)

const environmentPrefix = "STOPMATCH_"

type Inputs struct {
	Atlas         string `yaml:"atlas" validate:"required"`
	Osm           string `yaml:"osm" validate:"required"`
	AtlasRoutes   string `yaml:"atlas_routes"`
	OsmRoutes     string `yaml:"osm_routes"`
	ManualMatches string `yaml:"manual_matches"`
	Operators     string `yaml:"operators"`
	Delimiter     string `yaml:"delimiter" validate:"omitempty,len=1"`
}

type Export struct {
	OutputDirectory string `yaml:"output_directory"`
	MongoDB         bool   `yaml:"mongodb"`
}

type Config struct {
	Inputs   Inputs          `yaml:"inputs"`
	Matching matching.Config `yaml:"matching"`
	Problems problems.Config `yaml:"problems"`
	Export   Export          `yaml:"export"`

	// Read the manual overrides from MongoDB instead of Inputs.ManualMatches
	ManualMatchesFromMongoDB bool `yaml:"manual_matches_from_mongodb"`
}

func Default() *Config {
	return &Config{
		Inputs: Inputs{
			Delimiter: ",",
			Operators: "data/operators.yaml",
		},
		Matching: matching.DefaultConfig(),
		Problems: problems.DefaultConfig(),
	}
}

// Load reads the optional YAML file at path on top of the defaults and applies the
// STOPMATCH_* environment overrides. Validation is left to Validate so CLI flags can be
// applied in between.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvironment(util.GetPrefixedEnvironmentVariables(environmentPrefix)); err != nil {
		return nil, err
	}

	// The isolation annotation and the unmatched priority tiers share one radius
	cfg.Problems.IsolationRadius = cfg.Matching.IsolationRadius

	return cfg, nil
}

func (c *Config) Validate() error {
	v := validator.New()

	if err := v.Struct(c.Inputs); err != nil {
		return err
	}
	if err := v.Struct(c.Matching); err != nil {
		return err
	}
	if err := v.Struct(c.Problems); err != nil {
		return err
	}

	return nil
}

// Delimiter returns the CSV delimiter as a rune, zero meaning the default comma
func (c *Config) Delimiter() rune {
	delimiter, _ := utf8.DecodeRuneInString(c.Inputs.Delimiter)
	if delimiter == utf8.RuneError {
		return 0
	}

	return delimiter
}

func (c *Config) applyEnvironment(env map[string]string) error {
	stringValues := map[string]*string{
		"ATLAS":            &c.Inputs.Atlas,
		"OSM":              &c.Inputs.Osm,
		"ATLAS_ROUTES":     &c.Inputs.AtlasRoutes,
		"OSM_ROUTES":       &c.Inputs.OsmRoutes,
		"MANUAL_MATCHES":   &c.Inputs.ManualMatches,
		"OPERATORS":        &c.Inputs.Operators,
		"DELIMITER":        &c.Inputs.Delimiter,
		"OUTPUT_DIRECTORY": &c.Export.OutputDirectory,
		"PRIMARY_OPERATOR": &c.Problems.PrimaryOperator,
	}
	for name, destination := range stringValues {
		if value, exists := env[name]; exists {
			*destination = value
		}
	}

	floatValues := map[string]*float64{
		"MATCH_RADIUS":     &c.Matching.MatchRadius,
		"ISOLATION_RADIUS": &c.Matching.IsolationRadius,
	}
	for name, destination := range floatValues {
		if value, exists := env[name]; exists {
			parsed, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("%s%s: %w", environmentPrefix, name, err)
			}
			*destination = parsed
		}
	}

	if env["EXPORT_MONGODB"] == "YES" {
		c.Export.MongoDB = true
	}

	return nil
}
