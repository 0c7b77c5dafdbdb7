package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/ini.v1"
)

// Config holds vcpkg planner configuration
type Config struct {
	Profile string

	// Paths
	RootPath      string // Base directory; other paths default beneath it
	PortsPath     string // Port tree: <PortsPath>/<name>/CONTROL
	InstalledPath string // Installed tree; status file lives in <InstalledPath>/vcpkg
	PackagesPath  string // Built binary packages
	LogsPath      string // Operation logs

	DefaultTriplet string

	Debug  bool
	YesAll bool

	// Database settings
	Database struct {
		Path string // Default: ${RootPath}/cache.db
	}
}

// StatusFilePath returns the installed-state database file location.
func (c *Config) StatusFilePath() string {
	return filepath.Join(c.InstalledPath, "vcpkg", "status")
}

// hostTriplet derives a default triplet from the running toolchain when
// neither the environment nor the config file names one.
func hostTriplet() string {
	arch := "x64"
	switch runtime.GOARCH {
	case "386":
		arch = "x86"
	case "arm64":
		arch = "arm64"
	}

	switch runtime.GOOS {
	case "windows":
		return arch + "-windows"
	case "darwin":
		return arch + "-osx"
	case "freebsd":
		return arch + "-freebsd"
	default:
		return arch + "-linux"
	}
}

// LoadConfig loads configuration from file
func LoadConfig(configDir, profile string) (*Config, error) {
	cfg := &Config{
		Profile:        profile,
		DefaultTriplet: hostTriplet(),
	}
	if env := os.Getenv("VCPKG_DEFAULT_TRIPLET"); env != "" {
		cfg.DefaultTriplet = env
	}
	if env := os.Getenv("VCPKG_ROOT"); env != "" {
		cfg.RootPath = env
	}

	// Determine config file path
	configFile := "/etc/vcpkg/vcpkg.ini"
	if configDir != "" {
		configFile = filepath.Join(configDir, "vcpkg.ini")
	}

	// Try to load config file
	if _, err := os.Stat(configFile); err == nil {
		iniFile, err := ini.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}

		// If no profile specified, read from global section
		if cfg.Profile == "" || cfg.Profile == "default" {
			globalSec := iniFile.Section("Global Configuration")
			if globalSec != nil {
				if key := globalSec.Key("profile_selected"); key != nil && key.String() != "" {
					cfg.Profile = key.String()
				}
			}
		}

		sec := iniFile.Section(cfg.Profile)
		if sec != nil {
			applySection(cfg, sec)
		}
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applySection(cfg *Config, sec *ini.Section) {
	read := func(key string, dst *string) {
		if k := sec.Key(key); k != nil && k.String() != "" {
			*dst = k.String()
		}
	}
	read("root", &cfg.RootPath)
	read("ports_path", &cfg.PortsPath)
	read("installed_path", &cfg.InstalledPath)
	read("packages_path", &cfg.PackagesPath)
	read("logs_path", &cfg.LogsPath)
	read("default_triplet", &cfg.DefaultTriplet)
	read("database_path", &cfg.Database.Path)
}

func applyDefaults(cfg *Config) {
	if cfg.RootPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.RootPath = filepath.Join(home, "vcpkg")
		} else {
			cfg.RootPath = "/usr/local/vcpkg"
		}
	}
	if cfg.PortsPath == "" {
		cfg.PortsPath = filepath.Join(cfg.RootPath, "ports")
	}
	if cfg.InstalledPath == "" {
		cfg.InstalledPath = filepath.Join(cfg.RootPath, "installed")
	}
	if cfg.PackagesPath == "" {
		cfg.PackagesPath = filepath.Join(cfg.RootPath, "packages")
	}
	if cfg.LogsPath == "" {
		cfg.LogsPath = filepath.Join(cfg.RootPath, "logs")
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join(cfg.RootPath, "cache.db")
	}
}
