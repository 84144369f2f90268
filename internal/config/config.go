package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "jefabcli/internal/errors"
)

// EnvPrefix namespaces every environment variable read by Load
const EnvPrefix = "JEFAB"

// Config represents the complete application configuration
type Config struct {
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Imputation ImputationConfig `yaml:"imputation" envconfig:"IMPUTATION"`
	Pipeline   PipelineConfig   `yaml:"pipeline" envconfig:"PIPELINE"`
	Cleaning   CleaningConfig   `yaml:"cleaning" ignored:"true"`
}

// PipelineConfig controls which steps run and how long each may take
type PipelineConfig struct {
	Disabled      []string      `yaml:"disabled" envconfig:"DISABLED" validate:"dive,oneof=profile normalize canonicalize rules impute"`
	StepTimeout   time.Duration `yaml:"step_timeout" envconfig:"STEP_TIMEOUT" validate:"gte=0"`
	ImputeTimeout time.Duration `yaml:"impute_timeout" envconfig:"IMPUTE_TIMEOUT" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains input and output locations of a run
type PathsConfig struct {
	Input       string `yaml:"input" envconfig:"INPUT"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	Summary     string `yaml:"summary" envconfig:"SUMMARY"`
	ColumnsCSV  string `yaml:"columns_csv" envconfig:"COLUMNS_CSV"`
	Report      string `yaml:"report" envconfig:"REPORT"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	TraceFile   string `yaml:"trace_file" envconfig:"TRACE_FILE"`
}

// ImputationConfig tunes the iterative numeric imputer
type ImputationConfig struct {
	MaxIter    int     `yaml:"max_iter" envconfig:"MAX_ITER" validate:"min=1,max=1000"`
	Tolerance  float64 `yaml:"tolerance" envconfig:"TOLERANCE" validate:"gt=0"`
	Seed       int64   `yaml:"seed" envconfig:"SEED"`
	Order      string  `yaml:"order" envconfig:"ORDER" validate:"oneof=ascending random"`
	RidgeAlpha float64 `yaml:"ridge_alpha" envconfig:"RIDGE_ALPHA" validate:"gte=0"`
}

// Replacement is one literal mojibake repair
type Replacement struct {
	From string `yaml:"from" validate:"required"`
	To   string `yaml:"to"`
}

// Synonym lists the surface variants of one canonical label
type Synonym struct {
	Canonical string   `yaml:"canonical" validate:"required"`
	Variants  []string `yaml:"variants" validate:"required,min=1,dive,required"`
}

// Rule fills Dependent with Fill where Trigger equals When and Dependent is missing
type Rule struct {
	Trigger   string  `yaml:"trigger" validate:"required"`
	When      string  `yaml:"when" validate:"required"`
	Dependent string  `yaml:"dependent" validate:"required"`
	Fill      float64 `yaml:"fill"`
}

// ParentSide names the columns describing one parent
type ParentSide struct {
	Name     string `yaml:"name" validate:"required"`
	Liveness string `yaml:"liveness" validate:"required"`
	Age      string `yaml:"age" validate:"required"`
	Bracket  string `yaml:"bracket" validate:"required"`
}

// Bracket is an inclusive age band
type Bracket struct {
	Low   int    `yaml:"low" validate:"gte=0"`
	High  int    `yaml:"high" validate:"gtefield=Low"`
	Label string `yaml:"label" validate:"required"`
}

// LivenessConfig lists the normalized answers read as alive or dead
type LivenessConfig struct {
	Alive []string `yaml:"alive" validate:"required,min=1"`
	Dead  []string `yaml:"dead" validate:"required,min=1"`
}

// CleaningConfig holds the static tables injected into the cleaning stages
type CleaningConfig struct {
	Mojibake     []Replacement  `yaml:"mojibake" validate:"dive"`
	Synonyms     []Synonym      `yaml:"synonyms" validate:"dive"`
	Rules        []Rule         `yaml:"rules" validate:"dive"`
	Liveness     LivenessConfig `yaml:"liveness"`
	Parents      []ParentSide   `yaml:"parents" validate:"dive"`
	Brackets     []Bracket      `yaml:"brackets" validate:"required,min=1,dive"`
	OtherBracket string         `yaml:"other_bracket" validate:"required"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. A .env file in the working
// directory is loaded into the environment first when present.
// An empty configFile falls back to JEFAB_CONFIG_FILE and the usual locations.
func Load(configFile string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, apperrors.NewConfigError("failed to load .env", err)
		}
	}

	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).WithContext("file", configFile)
		}
	}

	// Only variables that are set override the file and the defaults
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("config validation failed", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg. Sections absent from the file keep their values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and normalizes the logging section
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	// Logs are always JSON
	c.Logging.Format = "json"
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/depurar.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "console",
		},
		Paths: PathsConfig{
			Input:   "data/JEFAB_2024.xlsx",
			Output:  "data/JEFAB_2024_limpio.xlsx",
			Summary: "data/resumen_calidad.xlsx",
			Report:  "data/informe_calidad.md",
		},
		Imputation: ImputationConfig{
			MaxIter:    10,
			Tolerance:  1e-3,
			Seed:       42,
			Order:      "ascending",
			RidgeAlpha: 1.0,
		},
		Pipeline: PipelineConfig{
			StepTimeout:   10 * time.Minute,
			ImputeTimeout: 30 * time.Minute,
		},
		Cleaning: DefaultCleaning(),
	}
}
