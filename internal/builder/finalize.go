package builder

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"pipeline-builder/internal/engine"
	"pipeline-builder/internal/pipeline"
)

func (b *Builder) finalize(ctx context.Context) (*Outcome, error) {
	b.state = Finalizing

	if len(b.operations) == 0 {
		b.printf("no operations selected. exiting.\n")
		b.state = Terminal
		return nil, ErrNoOperations
	}

	roi, err := b.collectROI(ctx)
	if err != nil {
		return nil, err
	}

	inputImage, err := b.readLine(ctx, "enter input image path: ")
	if err != nil {
		return nil, errors.Wrap(err, "unable to read input image path")
	}
	outputImage, err := b.readLine(ctx, "enter output image path: ")
	if err != nil {
		return nil, errors.Wrap(err, "unable to read output image path")
	}

	doc := &pipeline.Document{
		ROI:         roi,
		Operations:  b.Operations(),
		InputImage:  inputImage,
		OutputImage: outputImage,
	}

	for _, warning := range b.inspectImages(doc) {
		b.printf("warning: %s\n", warning)
	}
	for _, issue := range pipeline.Check(doc) {
		b.printf("warning: %s\n", issue)
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "session interrupted")
	}
	if err := pipeline.WriteFile(b.documentPath, doc); err != nil {
		return nil, err
	}
	b.printf("pipeline json written to %s\n", b.documentPath)
	b.logger.WithFields(logrus.Fields{
		"path":       b.documentPath,
		"operations": len(doc.Operations),
		"roi":        doc.ROI.String(),
	}).Debug("Pipeline document written")

	outcome := &Outcome{
		Document:     doc,
		DocumentPath: b.documentPath,
	}
	b.execute(ctx, outcome)

	b.state = Terminal
	return outcome, nil
}

var roiFields = []struct {
	name   string
	prompt string
}{
	{name: "x", prompt: "roi x (default 0): "},
	{name: "y", prompt: "roi y (default 0): "},
	{name: "width", prompt: "roi width (0 = full image width, default 0): "},
	{name: "height", prompt: "roi height (0 = full image height, default 0): "},
}

// collectROI reads the four region fields with the same retry loop used for
// operation parameters. Empty answers mean 0.
func (b *Builder) collectROI(ctx context.Context) (pipeline.RegionOfInterest, error) {
	b.printf("\nregion of interest (leave empty to process the full image):\n")

	values := make([]int, len(roiFields))
	for idx, field := range roiFields {
		for {
			line, err := b.readLine(ctx, field.prompt)
			if err != nil {
				return pipeline.RegionOfInterest{}, errors.Wrapf(err, "unable to read roi %s", field.name)
			}

			if line == "" {
				break
			}

			value, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil || value < 0 {
				b.printf("invalid value for %s. please enter a non-negative int.\n", field.name)
				continue
			}
			values[idx] = value
			break
		}
	}

	return pipeline.RegionOfInterest{
		X:      values[0],
		Y:      values[1],
		Width:  values[2],
		Height: values[3],
	}, nil
}

func (b *Builder) inspectImages(doc *pipeline.Document) []string {
	if b.inspector == nil {
		return nil
	}

	var warnings []string
	width, height, err := b.inspector.Dimensions(doc.InputImage)
	if err != nil {
		b.logger.WithError(err).Debug("Input image inspection failed")
		warnings = append(warnings, fmt.Sprintf("could not inspect input image %s: %v", doc.InputImage, err))
	} else if !doc.ROI.Fits(width, height) {
		warnings = append(warnings, fmt.Sprintf("roi (%s) does not fit inside input image %dx%d", doc.ROI, width, height))
	}

	if !b.inspector.SupportedFormat(doc.OutputImage) {
		warnings = append(warnings, fmt.Sprintf("output image %s does not have a supported image extension (%s)", doc.OutputImage, strings.Join(b.inspector.SupportedFormats(), ", ")))
	}
	return warnings
}

// execute runs the engine and relays what it printed. Failures are reported
// on the console and recorded in the outcome.
func (b *Builder) execute(ctx context.Context, outcome *Outcome) {
	doc := outcome.Document
	args := b.engine.Args(outcome.DocumentPath, doc.InputImage, doc.OutputImage)
	b.printf("running: %s\n", strings.Join(args, " "))

	result, err := b.engine.Run(ctx, outcome.DocumentPath, doc.InputImage, doc.OutputImage)
	outcome.Result = result

	if err == nil {
		b.relay(result.Stdout)
		b.printf("pipeline executed successfully.\n")
		outcome.Succeeded = true
		return
	}

	outcome.EngineErr = err
	b.logger.WithError(err).Warn("Pipeline run failed")

	b.printf("error running pipeline:\n")
	if result != nil {
		b.relay(result.Stdout)
		b.relay(result.Stderr)
	}

	var exitErr *engine.ExitError
	if !errors.As(err, &exitErr) {
		b.printf("%v\n", err)
	}
}

func (b *Builder) relay(text string) {
	if text == "" {
		return
	}
	b.printf("%s", text)
	if !strings.HasSuffix(text, "\n") {
		b.printf("\n")
	}
}
