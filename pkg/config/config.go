package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/travigo/ticketoffice/pkg/util"
	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration of the ticket office. Values come from an
// optional YAML file and are then overridden by TICKETOFFICE_ environment variables.
type Config struct {
	Listen string `yaml:"listen"`

	TimetableFiles []string `yaml:"timetable_files"`

	SnapshotFile  string `yaml:"snapshot_file"`
	SnapshotMongo bool   `yaml:"snapshot_mongo"`

	MaxTransfers       int `yaml:"max_transfers"`
	PlannerConcurrency int `yaml:"planner_concurrency"`

	SearchCache    bool          `yaml:"search_cache"`
	SearchCacheTTL time.Duration `yaml:"search_cache_ttl"`

	PublishEvents   bool `yaml:"publish_events"`
	NotifyPurchases bool `yaml:"notify_purchases"`
}

func Default() *Config {
	return &Config{
		Listen:         ":8080",
		SearchCacheTTL: 10 * time.Minute,
	}
}

// Load reads the YAML file at path, when given, over the defaults and then applies
// the environment
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		configYaml, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		decoder := yaml.NewDecoder(bytes.NewReader(configYaml))
		decoder.KnownFields(true)

		if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := config.ApplyEnvironment(util.GetEnvironmentVariables()); err != nil {
		return nil, err
	}

	return config, config.Validate()
}

func (c *Config) ApplyEnvironment(env map[string]string) error {
	if env["TICKETOFFICE_LISTEN"] != "" {
		c.Listen = env["TICKETOFFICE_LISTEN"]
	}

	if env["TICKETOFFICE_TIMETABLE_FILES"] != "" {
		c.TimetableFiles = strings.Split(env["TICKETOFFICE_TIMETABLE_FILES"], ",")
	}

	if env["TICKETOFFICE_SNAPSHOT_FILE"] != "" {
		c.SnapshotFile = env["TICKETOFFICE_SNAPSHOT_FILE"]
	}

	if env["TICKETOFFICE_SNAPSHOT_MONGO"] != "" {
		c.SnapshotMongo = env["TICKETOFFICE_SNAPSHOT_MONGO"] == "YES"
	}

	var err error

	if c.MaxTransfers, err = util.GetEnvironmentInt(env, "TICKETOFFICE_MAX_TRANSFERS", c.MaxTransfers); err != nil {
		return fmt.Errorf("TICKETOFFICE_MAX_TRANSFERS: %w", err)
	}

	if c.PlannerConcurrency, err = util.GetEnvironmentInt(env, "TICKETOFFICE_PLANNER_CONCURRENCY", c.PlannerConcurrency); err != nil {
		return fmt.Errorf("TICKETOFFICE_PLANNER_CONCURRENCY: %w", err)
	}

	if env["TICKETOFFICE_SEARCH_CACHE"] != "" {
		c.SearchCache = env["TICKETOFFICE_SEARCH_CACHE"] == "YES"
	}

	if env["TICKETOFFICE_SEARCH_CACHE_TTL"] != "" {
		if c.SearchCacheTTL, err = time.ParseDuration(env["TICKETOFFICE_SEARCH_CACHE_TTL"]); err != nil {
			return fmt.Errorf("TICKETOFFICE_SEARCH_CACHE_TTL: %w", err)
		}
	}

	if env["TICKETOFFICE_PUBLISH_EVENTS"] != "" {
		c.PublishEvents = env["TICKETOFFICE_PUBLISH_EVENTS"] == "YES"
	}

	if env["TICKETOFFICE_NOTIFY_PURCHASES"] != "" {
		c.NotifyPurchases = env["TICKETOFFICE_NOTIFY_PURCHASES"] == "YES"
	}

	return nil
}

func (c *Config) Validate() error {
	if c.MaxTransfers < 0 {
		return fmt.Errorf("max_transfers must not be negative, got %d", c.MaxTransfers)
	}

	if c.PlannerConcurrency < 0 {
		return fmt.Errorf("planner_concurrency must not be negative, got %d", c.PlannerConcurrency)
	}

	if c.SearchCache && c.SearchCacheTTL <= 0 {
		return errors.New("search_cache_ttl must be positive when the search cache is enabled")
	}

	return nil
}
