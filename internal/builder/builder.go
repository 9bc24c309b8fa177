// Interactive pipeline assembly: operation selection, parameter collection
// and hand-off to the processing engine
package builder

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"pipeline-builder/internal/catalog"
	"pipeline-builder/internal/engine"
	"pipeline-builder/internal/pipeline"
	"pipeline-builder/internal/prompt"
)

// ErrNoOperations is returned when the operator finishes without selecting anything
var ErrNoOperations = errors.New("no operations selected")

// State is the builder's position in the interactive flow
type State int

const (
	SelectingOperation State = iota
	CollectingParameters
	Finalizing
	Terminal
)

func (s State) String() string {
	switch s {
	case SelectingOperation:
		return "selecting_operation"
	case CollectingParameters:
		return "collecting_parameters"
	case Finalizing:
		return "finalizing"
	case Terminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Engine runs the external processor on a written document
type Engine interface {
	Args(documentPath, inputImage, outputImage string) []string
	Run(ctx context.Context, documentPath, inputImage, outputImage string) (*engine.Result, error)
}

// ImageInspector checks images before the engine sees them
type ImageInspector interface {
	Dimensions(path string) (width, height int, err error)
	SupportedFormat(path string) bool
	SupportedFormats() []string
}

// Config holds the builder's collaborators that are not always present
type Config struct {
	DocumentPath string
	// Inspector is optional; nil skips image checks
	Inspector    ImageInspector
}

// Outcome summarizes a finished session
type Outcome struct {
	Document     *pipeline.Document
	DocumentPath string
	Result       *engine.Result
	// EngineErr is set when the engine failed; the session itself still succeeded
	EngineErr    error
	Succeeded    bool
}

// Builder drives one interactive session
type Builder struct {
	input        prompt.Provider
	out          io.Writer
	engine       Engine
	inspector    ImageInspector
	documentPath string
	logger       logrus.FieldLogger

	state      State
	operations []pipeline.OperationInstance
}

func New(input prompt.Provider, out io.Writer, runner Engine, config Config, logger logrus.FieldLogger) *Builder {
	documentPath := config.DocumentPath
	if documentPath == "" {
		documentPath = pipeline.DefaultFileName
	}
	return &Builder{
		input:        input,
		out:          out,
		engine:       runner,
		inspector:    config.Inspector,
		documentPath: documentPath,
		logger:       logger.WithField("session", uuid.NewString()),
		state:        SelectingOperation,
	}
}

func (b *Builder) State() State {
	return b.state
}

// Operations returns a copy of the steps collected so far
func (b *Builder) Operations() []pipeline.OperationInstance {
	result := make([]pipeline.OperationInstance, len(b.operations))
	copy(result, b.operations)
	return result
}

// Run collects operations until the operator selects 0, then finalizes.
// Engine failures are reported to the operator and do not produce an error.
func (b *Builder) Run(ctx context.Context) (*Outcome, error) {
	b.printf("welcome to the pipeline builder!\n")
	b.logger.Debug("Session started")

	for {
		op, done, err := b.selectOperation(ctx)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}

		params, err := b.collectParameters(ctx, op)
		if err != nil {
			return nil, err
		}
		b.operations = append(b.operations, pipeline.OperationInstance{
			Type:       op.Name,
			Parameters: params,
		})
		b.logger.WithFields(logrus.Fields{
			"operation":  op.Name,
			"parameters": params.Names(),
			"step":       len(b.operations),
		}).Debug("Operation added")
	}

	return b.finalize(ctx)
}

func (b *Builder) selectOperation(ctx context.Context) (catalog.OperationSpec, bool, error) {
	b.state = SelectingOperation

	b.printf("\navailable operations:\n")
	for idx, op := range catalog.List() {
		b.printf("  %d. %s\n", idx+1, op.Name)
	}
	b.printf("  0. done (finish pipeline)\n")

	for {
		line, err := b.readLine(ctx, "select operation number: ")
		if err != nil {
			return catalog.OperationSpec{}, false, errors.Wrap(err, "unable to read operation selection")
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			b.printf("invalid input. please enter a number.\n")
			continue
		}
		if choice == 0 {
			b.state = Finalizing
			return catalog.OperationSpec{}, true, nil
		}

		op, err := catalog.Get(choice)
		if err != nil {
			b.printf("please enter a number between 0 and %d.\n", catalog.Len())
			continue
		}
		b.state = CollectingParameters
		return op, false, nil
	}
}

// collectParameters asks for each parameter in declared order. An empty
// answer takes the default, or leaves the parameter out when there is none.
func (b *Builder) collectParameters(ctx context.Context, op catalog.OperationSpec) (pipeline.Parameters, error) {
	var params pipeline.Parameters

	for _, spec := range op.Parameters {
		for {
			line, err := b.readLine(ctx, fmt.Sprintf("  %s: ", spec.Prompt))
			if err != nil {
				return pipeline.Parameters{}, errors.Wrapf(err, "unable to read %s parameter %s", op.Name, spec.Name)
			}

			if line == "" {
				if spec.HasDefault() {
					params.Set(spec.Name, *spec.Default)
				}
				break
			}

			value, err := spec.Parse(line)
			if err != nil {
				b.printf("invalid value for %s. please enter a %s.\n", spec.Name, spec.Type)
				continue
			}
			params.Set(spec.Name, value)
			break
		}
	}

	return params, nil
}

// readLine stops the session once ctx is done instead of collecting more answers
func (b *Builder) readLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(err, "session interrupted")
	}
	return b.input.ReadLine(prompt)
}

func (b *Builder) printf(format string, args ...interface{}) {
	fmt.Fprintf(b.out, format, args...)
}
