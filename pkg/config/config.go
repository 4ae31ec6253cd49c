// Package config reads the yaml configuration file of the tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// DefaultPolicyFileName is used when the config does not set policyfile.
const DefaultPolicyFileName = "policies.jsonl"

// Config is the struct for the configuration.
type Config struct {
	S3Endpoint    string `yaml:"s3endpoint"`
	S3AccessKey   string `yaml:"accesskey"`
	S3APIKey      string `yaml:"apikey"`
	S3Region      string `yaml:"s3region"`
	SSOAwsProfile string `yaml:"ssoawsprofile"`
	LogLevel      string `yaml:"loglevel"`
	RestoreDays   int    `yaml:"restoredays"`
	PolicyFile    string `yaml:"policyfile"`
}

// ReadYamlCnxFile reads a yaml file and returns a Config struct.
func ReadYamlCnxFile(filename string) (Config, error) {
	var config Config

	yamlFile, err := os.ReadFile(filename)
	if err != nil {
		return config, fmt.Errorf("ReadYamlCnxFile: error reading %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(yamlFile, &config); err != nil {
		return config, fmt.Errorf("ReadYamlCnxFile: error parsing %s: %w", filename, err)
	}
	return config, nil
}

// PolicyFilePath returns the configured policy file or the default
// location under the user's home directory.
func (c Config) PolicyFilePath() (string, error) {
	if c.PolicyFile != "" {
		return c.PolicyFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("PolicyFilePath: error resolving home directory: %w", err)
	}
	dir := filepath.Join(home, ".s3migrate")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("PolicyFilePath: error creating %s: %w", dir, err)
	}
	return filepath.Join(dir, DefaultPolicyFileName), nil
}
