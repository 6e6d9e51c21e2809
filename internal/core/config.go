package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/encoding"

	"github.com/ardougne/runebuf/pkg/buffer"
)

// Config contains all of the configuration options available to the runebuf
// tools.
type Config struct {
	// Full path to file to which logs will be written. Blank will write to stdout.
	LogFilePath string `mapstructure:"log_file_path"`
	// Minimum level of a log required to be written. Options: debug, info, warn, error
	LogLevel string `mapstructure:"log_level"`
	// Include the calling function in every log entry.
	IncludeCaller bool `mapstructure:"include_caller"`
	// Character set used for strings. Options: raw, cp1252, latin1
	Charset string `mapstructure:"charset"`
	// Directory containing the packet layout files.
	LayoutsDir string `mapstructure:"layouts_dir"`
	// How long a loaded layout is kept before its file is read again.
	LayoutCacheTTL time.Duration `mapstructure:"layout_cache_ttl"`

	Capture struct {
		// TCP port of the game server in captures. Segments sent to this port
		// are recorded as client-to-server.
		ServerPort int `mapstructure:"server_port"`
	} `mapstructure:"capture"`

	Database struct {
		// Either postgres or sqlite.
		Engine string `mapstructure:"engine"`
		// Database file used by the sqlite engine.
		Filename string `mapstructure:"filename"`
		// Hostname of the Postgres database instance.
		Host string `mapstructure:"host"`
		// Port on db_host on which the Postgres instance is accepting connections.
		Port int `mapstructure:"port"`
		// Name of the database in Postgres for runebuf.
		Name string `mapstructure:"name"`
		// Username and password of a user with full RW privileges to ${db_name}.
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		// Set to verify-full if the Postgres instance supports SSL.
		SSLMode string `mapstructure:"sslmode"`
	} `mapstructure:"database"`

	Debugging struct {
		// Enable database-level query logging.
		DatabaseLoggingEnabled bool `mapstructure:"database_logging_enabled"`
		// Dump decoded values with go-spew instead of the field table.
		DumpValues bool `mapstructure:"dump_values"`
	} `mapstructure:"debugging"`
}

const envVarPrefix = "RUNEBUF"

var defaults = map[string]interface{}{
	"log_level":                          "info",
	"log_file_path":                      "",
	"include_caller":                     false,
	"charset":                            "raw",
	"layouts_dir":                        "layouts",
	"layout_cache_ttl":                   "5m",
	"capture.server_port":                43594,
	"database.engine":                    "sqlite",
	"database.filename":                  "runebuf.db",
	"database.host":                      "localhost",
	"database.port":                      5432,
	"database.name":                      "runebuf",
	"database.username":                  "",
	"database.password":                  "",
	"database.sslmode":                   "disable",
	"debugging.database_logging_enabled": false,
	"debugging.dump_values":              false,
}

// LoadConfig reads config.yaml from configPath. A missing file is not an
// error: the defaults and any RUNEBUF_* environment variables are used instead.
// If configPath names a file rather than a directory, that file is read and
// must exist.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if strings.HasSuffix(configPath, ".yaml") || strings.HasSuffix(configPath, ".yml") {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(configPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envVarPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// This allows us to set nested yaml config options through environment
	// variables. For example, database.host can be set using: <envVarPrefix>_DATABASE_HOST
	for _, k := range v.AllKeys() {
		envVar := envVarPrefix + "_" + strings.ReplaceAll(strings.ToUpper(k), ".", "_")
		if err := v.BindEnv(k, envVar); err != nil {
			return nil, fmt.Errorf("error binding %s to %s: %w", k, envVar, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config object: %w", err)
	}
	return config, nil
}

const databaseURITemplate = "host=%s port=%d dbname=%s user=%s password=%s sslmode=%s"

// DatabaseURL returns a database URL generated from the provided config values.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		databaseURITemplate,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.Username,
		c.Database.Password,
		c.Database.SSLMode,
	)
}

// DataSource returns what the configured database engine needs to connect:
// a connection string for postgres, a file name for sqlite.
func (c *Config) DataSource() string {
	if strings.EqualFold(c.Database.Engine, "postgres") {
		return c.DatabaseURL()
	}
	return c.Database.Filename
}

// Encoding resolves the configured character set. A nil encoding means
// strings are copied byte for byte.
func (c *Config) Encoding() (encoding.Encoding, error) {
	return buffer.ParseCharset(c.Charset)
}
