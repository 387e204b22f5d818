package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vk/mkexpr/internal/app"
)

// TemplateName is the file name the harness uses for the template.
const TemplateName = "type_checker_template.cpp"

// OutputName is the file name the harness writes the generated code to.
const OutputName = "type_checker.cpp"

// FixedYear is the year reported by the harness clock.
const FixedYear = 2026

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of a generator run.
type HarnessResult struct {
	Dir        string // temporary root holding every file
	OutputPath string
	Output     string // generated file content, empty if none was written
	Stdout     string
	LogOutput  string
	Err        error
	App        *app.App
}

// Run writes files into a fresh temporary directory and runs the generator
// over the given kinds files (names relative to that directory). The
// template is read from files[TemplateName].
func Run(t *testing.T, files map[string]string, kinds []string, opts ...app.Option) *HarnessResult {
	t.Helper()
	return RunConfig(t, files, app.Config{KindsPaths: kinds}, opts...)
}

// RunConfig is like Run but lets the caller set any Config field. Relative
// kinds, template and output paths are resolved against the temporary root;
// empty template and output paths get the harness defaults.
func RunConfig(t *testing.T, files map[string]string, cfg app.Config, opts ...app.Option) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	resolve := func(p, def string) string {
		if p == "" {
			p = def
		}
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(tmpDir, p)
	}

	kinds := make([]string, len(cfg.KindsPaths))
	for i, k := range cfg.KindsPaths {
		kinds[i] = resolve(k, "")
	}
	cfg.KindsPaths = kinds
	cfg.TemplatePath = resolve(cfg.TemplatePath, TemplateName)
	cfg.OutputPath = resolve(cfg.OutputPath, OutputName)
	if cfg.Command == "" {
		cfg.Command = "mkexpr --kinds ..."
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	stdout := &SafeBuffer{}
	logBuffer := &SafeBuffer{}
	opts = append([]app.Option{app.WithClock(func() time.Time {
		return time.Date(FixedYear, time.March, 1, 0, 0, 0, 0, time.UTC)
	})}, opts...)

	generator := app.NewApp(stdout, logBuffer, appConfig, opts...)
	runErr := generator.Run(context.Background())

	if os.Getenv("MKEXPR_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	result := &HarnessResult{
		Dir:        tmpDir,
		OutputPath: cfg.OutputPath,
		Stdout:     stdout.String(),
		LogOutput:  logBuffer.String(),
		Err:        runErr,
		App:        generator,
	}
	if data, err := os.ReadFile(cfg.OutputPath); err == nil {
		result.Output = string(data)
	}
	return result
}
