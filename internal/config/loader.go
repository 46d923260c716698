package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"
)

// EnvPrefix scopes environment overrides, e.g.
// PLACEMENT_TRAINING_EPISODES=500
const EnvPrefix = "PLACEMENT"

// Loader reads configuration from an optional file plus environment
// overrides. Each loader owns its own viper instance so tests and
// embedded uses never share global state.
type Loader struct {
	v      *viper.Viper
	logger hclog.Logger
}

// NewLoader creates a loader with defaults and environment wiring
// installed
func NewLoader(logger hclog.Logger) *Loader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return &Loader{v: v, logger: logger}
}

// Load reads the configuration. An empty path searches for
// placement.yaml in the working directory and ./configs; a missing
// file is fine then, the defaults and environment stand alone. An
// explicit path that cannot be read is an error.
func (l *Loader) Load(path string) (*Config, error) {
	if path != "" {
		l.v.SetConfigFile(path)
	} else {
		l.v.SetConfigName("placement")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		l.v.AddConfigPath("./configs")
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			l.logger.Debug("no config file found, using defaults and environment")
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		l.logger.Info("loaded configuration", "file", l.v.ConfigFileUsed())
	}

	return l.decode()
}

// Watch re-reads the file on change and hands validated snapshots to
// onChange. Invalid edits are logged and skipped, the previous
// configuration stays live.
func (l *Loader) Watch(onChange func(*Config)) {
	l.v.OnConfigChange(func(event fsnotify.Event) {
		l.logger.Info("configuration file changed", "file", event.Name)
		cfg, err := l.decode()
		if err != nil {
			l.logger.Error("updated config rejected, keeping previous", "error", err)
			return
		}
		onChange(cfg)
	})
	l.v.WatchConfig()
}

func (l *Loader) decode() (*Config, error) {
	cfg := DefaultConfig()
	if err := l.v.Unmarshal(cfg, withJSONTags); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// withJSONTags reuses the json struct tags as viper keys so the tree
// is tagged once
func withJSONTags(dc *mapstructure.DecoderConfig) {
	dc.TagName = "json"
}

// setDefaults registers every scalar key so environment-only
// overrides resolve without a config file
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()

	v.SetDefault("training.episodes", defaults.Training.Episodes)
	v.SetDefault("training.tasks_per_episode", defaults.Training.TasksPerEpisode)
	v.SetDefault("training.store", defaults.Training.Store)
	v.SetDefault("training.alpha", defaults.Training.Alpha)
	v.SetDefault("training.gamma", defaults.Training.Gamma)
	v.SetDefault("training.epsilon", defaults.Training.Epsilon)
	v.SetDefault("training.epsilon_decay", defaults.Training.EpsilonDecay)
	v.SetDefault("training.epsilon_min", defaults.Training.EpsilonMin)
	v.SetDefault("training.simulator", defaults.Training.Simulator)
	v.SetDefault("training.edge_capacity_mbps", defaults.Training.EdgeCapacityMbps)
	v.SetDefault("training.cloud_capacity_mbps", defaults.Training.CloudCapacityMbps)
	v.SetDefault("training.reward.latency_weight", defaults.Training.Reward.LatencyWeight)
	v.SetDefault("training.reward.energy_weight", defaults.Training.Reward.EnergyWeight)
	v.SetDefault("training.states.size_bounds_mb", defaults.Training.States.SizeBoundsMB)
	v.SetDefault("training.states.load_bounds_mb", defaults.Training.States.LoadBoundsMB)
	v.SetDefault("training.states.load_scale_mb", defaults.Training.States.LoadScaleMB)
	v.SetDefault("training.seed", defaults.Training.Seed)
	v.SetDefault("training.log_every", defaults.Training.LogEvery)

	v.SetDefault("run.output_dir", defaults.Run.OutputDir)
	v.SetDefault("run.eval_tasks", defaults.Run.EvalTasks)
	v.SetDefault("run.arrival_rate", defaults.Run.ArrivalRate)
	v.SetDefault("run.policies", defaults.Run.Policies)

	v.SetDefault("server.host", defaults.Server.Host)
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("server.cors_origins", defaults.Server.CORSOrigins)

	v.SetDefault("storage.database_path", defaults.Storage.DatabasePath)
	v.SetDefault("storage.s3.enabled", defaults.Storage.S3.Enabled)
	v.SetDefault("storage.s3.bucket", defaults.Storage.S3.Bucket)
	v.SetDefault("storage.s3.prefix", defaults.Storage.S3.Prefix)
	v.SetDefault("storage.s3.region", defaults.Storage.S3.Region)

	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.json", defaults.Log.JSON)
	v.SetDefault("log.file", defaults.Log.File)
}
