package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"suitesync.dev/pkg/suitesync/internal/adapter"
)

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// ZeroCountPolicy decides what a `+N,0` hunk contributes to the changed ranges.
type ZeroCountPolicy string

const (
	// ZeroCountMarker maps a pure deletion to the single line [N,N].
	ZeroCountMarker ZeroCountPolicy = "marker"
	// ZeroCountSkip drops pure deletions, so they never impact a declaration.
	ZeroCountSkip ZeroCountPolicy = "skip"
)

// Coverage runners.
const (
	RunnerGo   = "go"
	RunnerJest = "jest"
)

// CoverageConfig controls measurement and convergence.
type CoverageConfig struct {
	Threshold     float64 `validate:"gte=0,lte=100"`
	MaxIterations int     `validate:"gte=0"`
	Runner        string  `validate:"oneof=go jest"`
	// Command overrides the jest command line.
	Command    string
	ReportsDir string `validate:"required"`
}

// PathsConfig selects the source files the pipeline looks at.
type PathsConfig struct {
	// SourceRoot is a slash-separated prefix relative to the repository root.
	// Empty or "." means the whole repository.
	SourceRoot string
	Extensions []string `validate:"required,min=1,dive,startswith=."`
	// Exclude holds doublestar globs matched against repository-relative paths.
	Exclude []string
}

// TestsConfig is the layout of generated test files.
type TestsConfig struct {
	Dir    string `validate:"required"`
	Suffix string `validate:"required"`
}

// DiffConfig holds the hunk policies.
type DiffConfig struct {
	ZeroCount ZeroCountPolicy `validate:"oneof=marker skip"`
	// WholeFileFallback treats every declaration of a changed file without
	// parseable hunks as impacted.
	WholeFileFallback bool
}

// GenerationConfig configures the test generation backend.
type GenerationConfig struct {
	Endpoint string `validate:"required,url"`
	Model    string `validate:"required"`
	APIKey   string
	Timeout  time.Duration `validate:"gte=0"`
	Rate     float64       `validate:"gte=0"`
}

// PublishConfig configures branch publication and pull requests.
type PublishConfig struct {
	Enabled     bool
	Remote      string `validate:"required_if=Enabled true"`
	Base        string `validate:"required_if=Enabled true"`
	AuthorName  string
	AuthorEmail string `validate:"omitempty,email"`
	Token       string
	APIURL      string `validate:"omitempty,url"`
}

// Config is the explicit configuration of one run. The domain never reads the
// environment; the CLI builds this value once.
type Config struct {
	Coverage   CoverageConfig
	Paths      PathsConfig
	Tests      TestsConfig
	Diff       DiffConfig
	Generation GenerationConfig
	Publish    PublishConfig
	Parallel   int `validate:"gte=1"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Coverage: CoverageConfig{
			Threshold:     80,
			MaxIterations: 5,
			Runner:        RunnerGo,
			ReportsDir:    ".reports",
		},
		Paths: PathsConfig{
			SourceRoot: "src",
			Extensions: []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".go"},
		},
		Tests: TestsConfig{
			Dir:    "__tests__",
			Suffix: ".test",
		},
		Diff: DiffConfig{
			ZeroCount: ZeroCountMarker,
		},
		Generation: GenerationConfig{
			Endpoint: "http://localhost:11434/v1",
			Model:    "codellama:7b-instruct-q4_K_M",
			Timeout:  120 * time.Second,
			Rate:     2,
		},
		Publish: PublishConfig{
			Enabled: true,
			Remote:  "origin",
			Base:    "main",
			APIURL:  adapter.DefaultGitHubAPI,
		},
		Parallel: 4,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct constraints and wraps failures in ErrInvalidConfig.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// TestLayout converts the tests section into the writer's layout.
func (c Config) TestLayout() adapter.TestLayout {
	return adapter.TestLayout{Dir: c.Tests.Dir, Suffix: c.Tests.Suffix}
}
