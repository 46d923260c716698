package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/latencylab/edge-placement-rl/pkg/models"
	"github.com/latencylab/edge-placement-rl/pkg/policy"
)

// Config is the root of the runtime configuration tree. Field tags
// double as viper keys, so PLACEMENT_TRAINING_EPISODES overrides
// training.episodes and so on.
type Config struct {
	Training policy.TrainingConfig `json:"training"`
	Run      RunConfig             `json:"run"`
	Server   ServerConfig          `json:"server"`
	Storage  StorageConfig         `json:"storage"`
	Log      LogConfig             `json:"log"`
}

// RunConfig shapes the experiment pipeline around a training run
type RunConfig struct {
	OutputDir   string   `json:"output_dir"`   // run artifacts root
	EvalTasks   int      `json:"eval_tasks"`   // held-out batch size
	ArrivalRate float64  `json:"arrival_rate"` // tasks per second on timelines
	Policies    []string `json:"policies"`     // comparison set
}

// ServerConfig holds the analytics API listener settings
type ServerConfig struct {
	Host        string   `json:"host"`
	Port        int      `json:"port"`
	CORSOrigins []string `json:"cors_origins"`
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig holds result persistence settings
type StorageConfig struct {
	DatabasePath string   `json:"database_path"` // sqlite file
	S3           S3Config `json:"s3"`
}

// S3Config holds the optional artifact upload target. Region falls
// back to AWS_REGION and then us-east-1 when empty.
type S3Config struct {
	Enabled bool   `json:"enabled"`
	Bucket  string `json:"bucket"`
	Prefix  string `json:"prefix"`
	Region  string `json:"region"`
}

// LogConfig holds logger settings. File, when set, receives a copy of
// every line alongside stdout.
type LogConfig struct {
	Level string `json:"level"`
	JSON  bool   `json:"json"`
	File  string `json:"file"`
}

// NewLogger builds the process logger from this config. An unwritable
// log file drops the file sink and keeps stdout rather than failing
// the process.
func (c LogConfig) NewLogger(name string) hclog.Logger {
	var out io.Writer = os.Stdout
	var openErr error
	if c.File != "" {
		if err := os.MkdirAll(filepath.Dir(c.File), 0o755); err != nil {
			openErr = err
		} else if f, err := os.OpenFile(c.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err != nil {
			openErr = err
		} else {
			out = io.MultiWriter(os.Stdout, f)
		}
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(c.Level),
		JSONFormat: c.JSON,
		Output:     out,
	})
	if openErr != nil {
		logger.Warn("log file unavailable, stdout only", "path", c.File, "error", openErr)
	}
	return logger
}

// DefaultConfig returns the full default tree. Loading overlays file
// and environment values on top of it.
func DefaultConfig() *Config {
	return &Config{
		Training: policy.DefaultTrainingConfig(),
		Run: RunConfig{
			OutputDir:   "runs",
			EvalTasks:   100,
			ArrivalRate: 5.0,
			Policies:    []string{policy.PolicyRL, policy.PolicyRule, policy.PolicyRandom},
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		},
		Storage: StorageConfig{
			DatabasePath: "placement.db",
			S3: S3Config{
				Enabled: false,
				Bucket:  "latency-results-project",
				Prefix:  "runs",
			},
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// Validate checks the whole tree
func (c *Config) Validate() error {
	var errors models.ValidationErrors

	if err := c.Training.Validate(); err != nil {
		if verrs, ok := err.(models.ValidationErrors); ok {
			errors = append(errors, verrs...)
		} else {
			return err
		}
	}

	errors.AddIf(c.Run.OutputDir == "", "run.output_dir", c.Run.OutputDir,
		"output directory is required")
	errors.AddIf(c.Run.EvalTasks <= 0, "run.eval_tasks", c.Run.EvalTasks,
		"must be positive")
	errors.AddIf(c.Run.ArrivalRate <= 0, "run.arrival_rate", c.Run.ArrivalRate,
		"must be positive")
	errors.AddIf(len(c.Run.Policies) == 0, "run.policies", c.Run.Policies,
		"at least one policy is required")
	for _, name := range c.Run.Policies {
		errors.AddIf(!validPolicyName(name), "run.policies", name,
			fmt.Sprintf("must be one of [%s %s %s]", policy.PolicyRL, policy.PolicyRule, policy.PolicyRandom))
	}

	errors.AddIf(c.Server.Port < 1 || c.Server.Port > 65535, "server.port", c.Server.Port,
		"must be in [1, 65535]")
	errors.AddIf(c.Storage.DatabasePath == "", "storage.database_path", c.Storage.DatabasePath,
		"database path is required")
	errors.AddIf(c.Storage.S3.Enabled && c.Storage.S3.Bucket == "", "storage.s3.bucket", c.Storage.S3.Bucket,
		"bucket is required when s3 upload is enabled")
	errors.AddIf(hclog.LevelFromString(c.Log.Level) == hclog.NoLevel, "log.level", c.Log.Level,
		"must be one of [trace debug info warn error off]")

	if errors.HasErrors() {
		return errors
	}
	return nil
}

func validPolicyName(name string) bool {
	switch name {
	case policy.PolicyRL, policy.PolicyRule, policy.PolicyRandom:
		return true
	default:
		return false
	}
}
