// Package config holds configuration defaults and the config file writer.
package config

// Defaults for every tunable. cmd wires these into viper; the writer
// emits them as the starter config file.
const (
	DefaultRootDir             = ".taskgraph"
	DefaultTasksDir            = "store"
	DefaultDataFormat          = "json"
	DefaultLockTimeoutSeconds  = 10
	DefaultLockRetryMillis     = 25
	DefaultAnalysisTimeoutSecs = 30
	DefaultBottleneckThreshold = 2
	DefaultMaxConcurrent       = 2
	DefaultAdmissionWaitSecs   = 10
)
