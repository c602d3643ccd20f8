// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/ayusman/nayana/internal/wink"
)

const (
	addrEnv                 = "NAYANA_ADDR"
	cameraIDEnv             = "NAYANA_CAMERA_ID"
	dataDirEnv              = "NAYANA_DATA_DIR"
	webDirEnv               = "NAYANA_WEB_DIR"
	constrainedEnv          = "NAYANA_CONSTRAINED"
	userAgentEnv            = "NAYANA_USER_AGENT"
	thresholdEnv            = "NAYANA_THRESHOLD"
	constrainedThresholdEnv = "NAYANA_CONSTRAINED_THRESHOLD"
	logLevelEnv             = "NAYANA_LOG_LEVEL"
	logFileEnv              = "NAYANA_LOG_FILE"
	trayEnv                 = "NAYANA_TRAY"
	streamFPSEnv            = "NAYANA_STREAM_FPS"

	defaultAddr      = ":8080"
	defaultLogLevel  = "info"
	defaultStreamFPS = 15
	dataDirName      = ".nayana"
)

// ConstrainedMode selects how the runtime context is resolved.
type ConstrainedMode string

const (
	ConstrainedAuto ConstrainedMode = "auto"
	ConstrainedOn   ConstrainedMode = "true"
	ConstrainedOff  ConstrainedMode = "false"
)

type Config struct {
	Addr      string `validate:"required"`
	CameraID  int    `validate:"gte=0"`
	DataDir   string `validate:"required"`
	WebDir    string
	UserAgent string

	Constrained          ConstrainedMode `validate:"oneof=auto true false"`
	Threshold            float64         `validate:"gt=0,lt=1"`
	ConstrainedThreshold float64         `validate:"gt=0,ltfield=Threshold"`

	LogLevel  string `validate:"oneof=trace debug info warn warning error"`
	LogFile   string
	Tray      bool
	StreamFPS int `validate:"gte=1,lte=60"`
}

// Load reads the configuration from the environment. Each file in envFiles
// is loaded first without overriding variables already set; with no files,
// an optional ./.env is used.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	addr := os.Getenv(addrEnv)
	if addr == "" {
		addr = defaultAddr
	}

	cameraID := 0
	if v := os.Getenv(cameraIDEnv); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, ErrInvalidCameraID
		}
		cameraID = parsed
	}

	dataDir := os.Getenv(dataDirEnv)
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, ErrHomeDirUnresolved
		}
		dataDir = filepath.Join(home, dataDirName)
	}

	webDir := os.Getenv(webDirEnv)
	if webDir == "" {
		webDir = findWebDir(dataDir)
	}

	constrained := ConstrainedMode(strings.ToLower(os.Getenv(constrainedEnv)))
	if constrained == "" {
		constrained = ConstrainedAuto
	}

	threshold, err := floatEnv(thresholdEnv, wink.DefaultThreshold)
	if err != nil {
		return nil, err
	}
	constrainedThreshold, err := floatEnv(constrainedThresholdEnv, wink.DefaultConstrainedThreshold)
	if err != nil {
		return nil, err
	}

	logLevel := strings.ToLower(os.Getenv(logLevelEnv))
	if logLevel == "" {
		logLevel = defaultLogLevel
	}

	tray := false
	if v := os.Getenv(trayEnv); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", trayEnv, ErrInvalidBool)
		}
		tray = parsed
	}

	streamFPS := defaultStreamFPS
	if v := os.Getenv(streamFPSEnv); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, ErrInvalidStreamFPS
		}
		streamFPS = parsed
	}

	cfg := &Config{
		Addr:                 addr,
		CameraID:             cameraID,
		DataDir:              dataDir,
		WebDir:               webDir,
		UserAgent:            os.Getenv(userAgentEnv),
		Constrained:          constrained,
		Threshold:            threshold,
		ConstrainedThreshold: constrainedThreshold,
		LogLevel:             logLevel,
		LogFile:              os.Getenv(logFileEnv),
		Tray:                 tray,
		StreamFPS:            streamFPS,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := NewValidator().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Thresholds returns the configured threshold pair.
func (c *Config) Thresholds() wink.Thresholds {
	return wink.Thresholds{
		Default:     c.Threshold,
		Constrained: c.ConstrainedThreshold,
	}
}

// RuntimeContext resolves the context once: an explicit mode wins, otherwise
// the user agent and CPU count are probed.
func (c *Config) RuntimeContext(numCPU int) wink.RuntimeContext {
	switch c.Constrained {
	case ConstrainedOn:
		return wink.RuntimeContext{Constrained: true}
	case ConstrainedOff:
		return wink.RuntimeContext{}
	default:
		return wink.ProbeContext(c.UserAgent, numCPU)
	}
}

// DBPath is the settings database location.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "nayana.db")
}

// NewValidator returns the validator used for config structs.
func NewValidator() *validator.Validate {
	return validator.New()
}

func floatEnv(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, ErrInvalidThreshold)
	}
	return parsed, nil
}

// findWebDir searches for the web directory in common locations.
// It checks "web", "../web", "../../web" and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	dataWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(dataWebDir); err == nil && info.IsDir() {
		return dataWebDir
	}

	return ""
}
