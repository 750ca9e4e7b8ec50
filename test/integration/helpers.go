//go:build integration

package integration

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	PublicKey  string
	PrivateKey string
	MarvelPath string
	Verbose    bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		PublicKey:  os.Getenv("MARVEL_PUBLIC_KEY"),
		PrivateKey: os.Getenv("MARVEL_PRIVATE_KEY"),
		MarvelPath: getMarvelPath(),
		Verbose:    os.Getenv("MARVEL_VERBOSE") == "true",
	}
}

// getMarvelPath determines the path to the marvel binary.
func getMarvelPath() string {
	if path := os.Getenv("MARVEL_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../marvel",
		"./marvel",
		"../marvel",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "marvel"
}

// SkipIfMissingConfig skips test if required config is missing.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.PublicKey == "" || config.PrivateKey == "" {
		t.Skip("MARVEL_PUBLIC_KEY or MARVEL_PRIVATE_KEY not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.MarvelPath); err != nil {
		t.Skipf("marvel binary not found at %s, skipping integration test", config.MarvelPath)
	}
}

// CommandRunner provides utilities for running marvel commands.
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// Run executes a marvel command and returns its output.
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(runner.config.MarvelPath, args...)
	cmd.Env = append(os.Environ(), "MARVEL_OUTPUT=json")

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.MarvelPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}
