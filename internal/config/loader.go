package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// iniSection is the credentials section name in INI files.
const iniSection = "tide"

// LoadCredentials loads platform credentials from the file at path.
// The format is selected by extension: .ini for the platform's
// conventional INI credential files, .yaml/.yml for the YAML form.
// A missing file returns ErrConfigNotFound so callers can decide
// whether that is fatal (explicit path) or not (default search).
func LoadCredentials(path string) (*Credentials, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini":
		return loadINI(path)
	case ".yaml", ".yml":
		return loadYAML(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConfigFormat, path)
	}
}

// loadINI reads credentials from an INI file:
//
//	[tide]
//	url = https://intel.example.com
//	api_version = v1
//	api_key = <key>
//	ok_codes = 200,202
func loadINI(path string) (*Credentials, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", path, err)
	}

	section := f.Section(iniSection)

	creds := &Credentials{
		URL:        section.Key("url").String(),
		APIVersion: section.Key("api_version").String(),
		APIKey:     section.Key("api_key").String(),
	}

	if codes := section.Key("ok_codes").Ints(","); len(codes) > 0 {
		creds.OKCodes = codes
	}

	applyCredentialDefaults(creds)
	return creds, nil
}

// yamlFile is the YAML credentials file shape:
//
//	tide:
//	  url: https://intel.example.com
//	  api_version: v1
//	  api_key: <key>
//	  ok_codes: [200, 202]
type yamlFile struct {
	Tide Credentials `yaml:"tide"`
}

// loadYAML reads credentials from a YAML file.
func loadYAML(path string) (*Credentials, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		return nil, err
	}

	var yf yamlFile
	if err := yaml.Unmarshal(data, &yf); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", path, err)
	}

	creds := yf.Tide
	applyCredentialDefaults(&creds)
	return &creds, nil
}

// applyCredentialDefaults fills optional credential fields.
func applyCredentialDefaults(creds *Credentials) {
	if creds.APIVersion == "" {
		creds.APIVersion = DefaultAPIVersion
	}
	if len(creds.OKCodes) == 0 {
		creds.OKCodes = DefaultOKCodes()
	}
}

// FindConfigFile searches for the credentials file in the following order:
//  1. If configPath is specified, use it directly
//  2. config.ini in the current directory
//  3. config.ini in the XDG config directory
//
// Returns the path if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}
