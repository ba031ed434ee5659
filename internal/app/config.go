package app

import (
	"github.com/joho/godotenv"

	"github.com/yungbote/fundgraph/internal/platform/envutil"
	"github.com/yungbote/fundgraph/internal/platform/logger"
)

type Config struct {
	LogMode          string
	ServiceName      string
	Environment      string
	Version          string
	Port             string
	PromptConfigPath string
	BatchSize        int
	Parallelism      int
}

// LoadEnv reads a .env file from the working directory when one exists. Variables already
// set in the process environment win.
func LoadEnv() {
	_ = godotenv.Load()
}

func LoadConfig() Config {
	return Config{
		LogMode:          envutil.String("LOG_MODE", "development"),
		ServiceName:      envutil.String("OTEL_SERVICE_NAME", "fundgraph"),
		Environment:      envutil.String("APP_ENV", "development"),
		Version:          envutil.String("APP_VERSION", "dev"),
		Port:             envutil.String("PORT", "8080"),
		PromptConfigPath: envutil.String("PROMPT_CONFIG_PATH", ""),
		BatchSize:        envutil.Int("MIGRATION_BATCH_SIZE", 50),
		Parallelism:      envutil.Int("RECONCILE_PARALLELISM", 1),
	}
}

func (c Config) log(log *logger.Logger) {
	log.Info("config loaded",
		"log_mode", c.LogMode,
		"service", c.ServiceName,
		"environment", c.Environment,
		"port", c.Port,
		"prompt_config", c.PromptConfigPath,
		"batch_size", c.BatchSize,
		"parallelism", c.Parallelism,
	)
}
