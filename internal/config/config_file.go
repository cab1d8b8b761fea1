package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FileSettings mirrors the environment settings in a YAML document. Only non-empty values are applied.
type FileSettings struct {
	Database struct {
		Type            string `yaml:"type"`
		URL             string `yaml:"url"`
		SqlLiteFileName string `yaml:"sqllite_file_name"`
	} `yaml:"database"`
	Server struct {
		WebPort     string `yaml:"web_port"`
		RequireAuth *bool  `yaml:"require_auth"`
	} `yaml:"server"`
	WorkflowEngine struct {
		WebhookURL     string `yaml:"webhook_url"`
		ApiURL         string `yaml:"api_url"`
		ApiKey         string `yaml:"api_key"`
		Timeout        string `yaml:"timeout"`
		NotifyAttempts int    `yaml:"notify_attempts"`
	} `yaml:"workflow_engine"`
	Status struct {
		RecentLimit int `yaml:"recent_limit"`
	} `yaml:"status"`
	WatchInterval string `yaml:"watch_interval"`
	LogLevel      string `yaml:"log_level"`
}

// LoadFile reads a YAML settings file and exports its values as environment variables.
// Variables that are already set win over the file so secrets can be injected by the environment.
// A missing file is not an error.
func LoadFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("Config file not found, using environment only", "path", path)
			return nil
		}
		return fmt.Errorf("config load: %w", err)
	}
	var fs FileSettings
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return fmt.Errorf("config unmarshal: %w", err)
	}
	fs.apply()
	return nil
}

func (fs *FileSettings) apply() {
	setIfEmpty(DATABASE_TYPE, fs.Database.Type)
	setIfEmpty(DATABASE_URL, fs.Database.URL)
	setIfEmpty(DATABASE_SQLLITE_FILE_NAME, fs.Database.SqlLiteFileName)
	setIfEmpty(SERVER_WEB_PORT, fs.Server.WebPort)
	if fs.Server.RequireAuth != nil {
		setIfEmpty(WEB_REQUIRE_AUTH, strconv.FormatBool(*fs.Server.RequireAuth))
	}
	setIfEmpty(WORKFLOW_ENGINE_WEBHOOK_URL, fs.WorkflowEngine.WebhookURL)
	setIfEmpty(WORKFLOW_ENGINE_API_URL, fs.WorkflowEngine.ApiURL)
	setIfEmpty(WORKFLOW_ENGINE_API_KEY, fs.WorkflowEngine.ApiKey)
	setIfEmpty(WORKFLOW_ENGINE_TIMEOUT, fs.WorkflowEngine.Timeout)
	if fs.WorkflowEngine.NotifyAttempts > 0 {
		setIfEmpty(WORKFLOW_ENGINE_NOTIFY_ATTEMPTS, strconv.Itoa(fs.WorkflowEngine.NotifyAttempts))
	}
	if fs.Status.RecentLimit > 0 {
		setIfEmpty(STATUS_RECENT_LIMIT, strconv.Itoa(fs.Status.RecentLimit))
	}
	setIfEmpty(WATCH_INTERVAL, fs.WatchInterval)
	setIfEmpty(LOG_LEVEL, fs.LogLevel)
}

func setIfEmpty(key, val string) {
	if val != "" && os.Getenv(key) == "" {
		_ = os.Setenv(key, val)
	}
}
