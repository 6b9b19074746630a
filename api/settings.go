// Package api defines the schema of the optional settings file.
package api

// Settings is the top-level schema of the YAML settings file passed via
// LINT_CONFIG_FILE or --config. Every field is optional; environment
// variables take precedence.
type Settings struct {
	// Extensions overrides the file suffixes that are validated.
	Extensions []string `yaml:"extensions"`
	// Kubeconform configures the validator process.
	Kubeconform KubeconformSettings `yaml:"kubeconform"`
	// Concurrency bounds how many validator processes may run at once.
	Concurrency int `yaml:"concurrency"`
	// Timeout is a per-file validation timeout in Go duration syntax (e.g. "30s").
	Timeout string `yaml:"timeout"`
	// FailOnErrors makes the run exit nonzero after posting a failure comment.
	FailOnErrors bool `yaml:"failOnErrors"`
}

// KubeconformSettings describes how the validator binary is invoked.
type KubeconformSettings struct {
	Bin  string   `yaml:"bin"`
	Args []string `yaml:"args"`
}
