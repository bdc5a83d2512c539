/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose   bool            `mapstructure:"verbose"`
	Config    string          `mapstructure:"config"`
	Project   ProjectConfig   `mapstructure:"project" validate:"required"`
	Data      DataConfig      `mapstructure:"data" validate:"required"`
	Locking   LockingConfig   `mapstructure:"locking" validate:"required"`
	Analysis  AnalysisConfig  `mapstructure:"analysis" validate:"required"`
	Admission AdmissionConfig `mapstructure:"admission" validate:"required"`
}

// ProjectConfig holds project-related settings
type ProjectConfig struct {
	RootDir  string `mapstructure:"rootDir" validate:"required"`
	TasksDir string `mapstructure:"tasksDir" validate:"required"`
}

// DataConfig holds record storage configuration
type DataConfig struct {
	Format string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
}

// LockingConfig bounds how long the store waits on advisory locks.
type LockingConfig struct {
	// TimeoutSeconds is the maximum time to wait for a record or store lock
	// before the operation fails with LOCK_TIMEOUT.
	TimeoutSeconds int `mapstructure:"timeoutSeconds" validate:"min=1,max=600"`
	// RetryIntervalMillis is the poll interval while waiting for a lock.
	RetryIntervalMillis int `mapstructure:"retryIntervalMillis" validate:"min=1,max=10000"`
}

// AnalysisConfig bounds bulk graph analysis.
type AnalysisConfig struct {
	// TimeoutSeconds caps whole-store graph computations; on expiry the
	// operation fails with ANALYSIS_TIMEOUT and no partial effect.
	TimeoutSeconds int `mapstructure:"timeoutSeconds" validate:"min=1,max=3600"`
	// BottleneckThreshold is the minimum number of blocked dependents
	// before a task is reported as a bottleneck.
	BottleneckThreshold int `mapstructure:"bottleneckThreshold" validate:"min=1"`
}

// AdmissionConfig bounds concurrent expensive operations.
type AdmissionConfig struct {
	// MaxConcurrent is the number of expensive operations allowed to run
	// at once. Callers beyond the cap wait in FIFO order.
	MaxConcurrent int `mapstructure:"maxConcurrent" validate:"min=1,max=64"`
	// WaitTimeoutSeconds is how long a caller waits for admission before
	// failing with OVERLOADED.
	WaitTimeoutSeconds int `mapstructure:"waitTimeoutSeconds" validate:"min=1,max=600"`
}
