package config

import "time"

// Config is the root application configuration.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Output   OutputConfig   `yaml:"output"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// SourceConfig holds the input file locations.
type SourceConfig struct {
	JMdictPath    string `yaml:"jmdict_path"     env:"COMPOUNDS_JMDICT_PATH"     env-default:"JMdict_e"`
	KanjiDictPath string `yaml:"kanji_dict_path" env:"COMPOUNDS_KANJI_DICT_PATH" env-default:"kanji_dict.json"`
}

// OutputConfig holds the file export settings.
type OutputConfig struct {
	Path   string `yaml:"path"   env:"COMPOUNDS_OUTPUT_PATH"   env-default:"compound_dict.json"`
	Format string `yaml:"format" env:"COMPOUNDS_OUTPUT_FORMAT" env-default:"json"`
}

// MaxBatchSize is the largest batch_size whose multi-row INSERT stays within
// PostgreSQL's 65535 bind parameters at five columns per row.
const MaxBatchSize = 65535 / 5

// DatabaseConfig holds PostgreSQL connection settings. An empty DSN disables
// the database export.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"4"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	BatchSize       int           `yaml:"batch_size"         env:"DATABASE_BATCH_SIZE"         env-default:"500"`
}

// Enabled reports whether a database is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.DSN != ""
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
