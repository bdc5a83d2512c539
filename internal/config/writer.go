package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"
)

// starterConfig mirrors types.AppConfig but with yaml tags so the
// generated file round-trips through the same keys viper reads.
type starterConfig struct {
	Project struct {
		RootDir  string `yaml:"rootDir"`
		TasksDir string `yaml:"tasksDir"`
	} `yaml:"project"`
	Data struct {
		Format string `yaml:"format"`
	} `yaml:"data"`
	Locking struct {
		TimeoutSeconds      int `yaml:"timeoutSeconds"`
		RetryIntervalMillis int `yaml:"retryIntervalMillis"`
	} `yaml:"locking"`
	Analysis struct {
		TimeoutSeconds      int `yaml:"timeoutSeconds"`
		BottleneckThreshold int `yaml:"bottleneckThreshold"`
	} `yaml:"analysis"`
	Admission struct {
		MaxConcurrent      int `yaml:"maxConcurrent"`
		WaitTimeoutSeconds int `yaml:"waitTimeoutSeconds"`
	} `yaml:"admission"`
}

// WriteStarterConfig writes a config file populated with defaults into
// dir. It refuses to overwrite an existing file. The filesystem is
// abstracted so tests can run against an in-memory fs.
func WriteStarterConfig(fs afero.Fs, dir string) (string, error) {
	path := filepath.Join(dir, ".taskgraph.yaml")
	if exists, _ := afero.Exists(fs, path); exists {
		return "", fmt.Errorf("config file %s already exists", path)
	}

	var c starterConfig
	c.Project.RootDir = DefaultRootDir
	c.Project.TasksDir = DefaultTasksDir
	c.Data.Format = DefaultDataFormat
	c.Locking.TimeoutSeconds = DefaultLockTimeoutSeconds
	c.Locking.RetryIntervalMillis = DefaultLockRetryMillis
	c.Analysis.TimeoutSeconds = DefaultAnalysisTimeoutSecs
	c.Analysis.BottleneckThreshold = DefaultBottleneckThreshold
	c.Admission.MaxConcurrent = DefaultMaxConcurrent
	c.Admission.WaitTimeoutSeconds = DefaultAdmissionWaitSecs

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal starter config: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return path, nil
}
