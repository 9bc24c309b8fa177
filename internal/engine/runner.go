// External processing engine invocation
package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Config describes how to launch the engine
type Config struct {
	// Path to the engine executable
	Path string
	// LibPath is prepended to LibEnv so the engine finds its native libraries
	LibPath string
	LibEnv  string
	// Timeout of zero waits for the engine indefinitely
	Timeout time.Duration
}

// Result holds everything the engine printed
type Result struct {
	Args     []string
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// ExitError reports an engine run that finished with a nonzero status
type ExitError struct {
	Result *Result
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("engine exited with status %d", e.Result.ExitCode)
}

// Runner launches the engine and captures its output
type Runner struct {
	config Config
	logger logrus.FieldLogger
}

func NewRunner(config Config, logger logrus.FieldLogger) *Runner {
	if config.LibEnv == "" {
		config.LibEnv = DefaultLibEnv()
	}
	return &Runner{
		config: config,
		logger: logger,
	}
}

// DefaultLibEnv names the variable the platform loader searches for shared libraries
func DefaultLibEnv() string {
	switch runtime.GOOS {
	case "windows":
		return "PATH"
	case "darwin":
		return "DYLD_LIBRARY_PATH"
	default:
		return "LD_LIBRARY_PATH"
	}
}

// Args returns the full command line for one run
func (r *Runner) Args(documentPath, inputImage, outputImage string) []string {
	return []string{r.config.Path, documentPath, inputImage, outputImage}
}

// Run executes the engine and blocks until it exits. A nonzero exit returns
// both the captured Result and an *ExitError.
func (r *Runner) Run(ctx context.Context, documentPath, inputImage, outputImage string) (*Result, error) {
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	args := r.Args(documentPath, inputImage, outputImage)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = r.environ()

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "unable to attach engine stdout")
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.Wrap(err, "unable to attach engine stderr")
	}

	r.logger.WithFields(logrus.Fields{
		"args":     args,
		"lib_env":  r.config.LibEnv,
		"lib_path": r.config.LibPath,
	}).Debug("Starting engine")

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "unable to start engine %s", r.config.Path)
	}

	var stdout, stderr bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(&stdout, stdoutPipe)
		return errors.Wrap(err, "unable to read engine stdout")
	})
	g.Go(func() error {
		_, err := io.Copy(&stderr, stderrPipe)
		return errors.Wrap(err, "unable to read engine stderr")
	})
	readErr := g.Wait()
	waitErr := cmd.Wait()

	result := &Result{
		Args:     args,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}

	logger := r.logger.WithFields(logrus.Fields{
		"exit_code": result.ExitCode,
		"duration":  result.Duration,
	})

	if ctxErr := ctx.Err(); ctxErr != nil {
		logger.WithError(ctxErr).Error("Engine interrupted")
		return result, errors.Wrap(ctxErr, "engine did not finish")
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			logger.Warn("Engine failed")
			return result, &ExitError{Result: result}
		}
		return result, errors.Wrap(waitErr, "engine wait failed")
	}

	if readErr != nil {
		return result, readErr
	}

	logger.Debug("Engine finished")
	return result, nil
}

func (r *Runner) environ() []string {
	env := os.Environ()
	if r.config.LibPath == "" {
		return env
	}
	return prependPathList(env, r.config.LibEnv, r.config.LibPath)
}

// prependPathList adds dir to the front of the list variable key in env
func prependPathList(env []string, key, dir string) []string {
	result := make([]string, 0, len(env)+1)
	found := false
	for _, kv := range env {
		name, value, ok := strings.Cut(kv, "=")
		if ok && sameEnvKey(name, key) && !found {
			found = true
			if value != "" {
				dir = dir + string(os.PathListSeparator) + value
			}
			result = append(result, name+"="+dir)
			continue
		}
		result = append(result, kv)
	}
	if !found {
		result = append(result, key+"="+dir)
	}
	return result
}

func sameEnvKey(a, b string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}
