package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const DATABASE_TYPE = "NFLOW_DATABASE_TYPE"
const DATABASE_URL = "NFLOW_DATABASE_URL"
const DATABASE_SQLLITE_FILE_NAME = "NFLOW_DATABASE_SQLLITE_FILE_NAME"
const SERVER_WEB_PORT = "NFLOW_SERVER_WEB_PORT"
const WORKFLOW_ENGINE_WEBHOOK_URL = "NFLOW_WORKFLOW_ENGINE_WEBHOOK_URL" //base url the stage webhooks hang off
const WORKFLOW_ENGINE_API_URL = "NFLOW_WORKFLOW_ENGINE_API_URL"         //base url of the executions api
const WORKFLOW_ENGINE_API_KEY = "NFLOW_WORKFLOW_ENGINE_API_KEY"
const WORKFLOW_ENGINE_TIMEOUT = "NFLOW_WORKFLOW_ENGINE_TIMEOUT"
const WORKFLOW_ENGINE_NOTIFY_ATTEMPTS = "NFLOW_WORKFLOW_ENGINE_NOTIFY_ATTEMPTS" //1 means a single delivery, no retry
const STATUS_RECENT_LIMIT = "NFLOW_STATUS_RECENT_LIMIT"
const WATCH_INTERVAL = "NFLOW_WATCH_INTERVAL"
const WEB_REQUIRE_AUTH = "NFLOW_WEB_REQUIRE_AUTH"
const LOG_LEVEL = "NFLOW_LOG_LEVEL"
const CONFIG_FILE = "NFLOW_CONFIG_FILE"

const DATABASE_TYPE_POSTGRES = "POSTGRES"
const DATABASE_TYPE_MYSQL = "MYSQL"
const DATABASE_TYPE_SQLLITE = "SQLLITE"

var defaults = map[string]string{
	DATABASE_TYPE:                   DATABASE_TYPE_SQLLITE,
	DATABASE_SQLLITE_FILE_NAME:      "./newsflow.db",
	SERVER_WEB_PORT:                 "8080",
	WORKFLOW_ENGINE_TIMEOUT:         "25s",
	WORKFLOW_ENGINE_NOTIFY_ATTEMPTS: "1",
	STATUS_RECENT_LIMIT:             "10",
	WATCH_INTERVAL:                  "3s",
	WEB_REQUIRE_AUTH:                "false",
	LOG_LEVEL:                       "info",
}

func GetSystemSettingInteger(settingKey string) int {
	val := GetSystemSettingString(settingKey)
	if val != "" {
		intValue, _ := strconv.Atoi(val)
		return intValue
	}
	return 0
}

func GetSystemSettingString(settingKey string) string {
	val := os.Getenv(settingKey)
	if val != "" {
		return val
	}
	return defaults[settingKey]
}

func GetSystemSettingBool(settingKey string) bool {
	val := strings.ToLower(GetSystemSettingString(settingKey))
	return val == "true" || val == "1" || val == "yes"
}

// GetSystemSettingDuration parses the setting with time.ParseDuration, falling back to the
// default when the configured value is not a valid duration.
func GetSystemSettingDuration(settingKey string) time.Duration {
	if d, err := time.ParseDuration(GetSystemSettingString(settingKey)); err == nil {
		return d
	}
	d, _ := time.ParseDuration(defaults[settingKey])
	return d
}
