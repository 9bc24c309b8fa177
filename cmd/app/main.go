// Pipeline Builder - interactive front end for the image processing engine
// License: MIT

package main

import (
	"context"
	"flag"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"pipeline-builder/internal/builder"
	"pipeline-builder/internal/config"
	"pipeline-builder/internal/engine"
	"pipeline-builder/internal/imaging"
	"pipeline-builder/internal/prompt"
)

const (
	AppName    = "Pipeline Builder"
	AppVersion = "1.0.0"
)

func main() {
	// Parse command line flags
	debugMode := flag.Bool("debug", false, "Enable debug mode with verbose logging")
	envFile := flag.String("env", ".env", "Dotenv file with PIPELINE_* settings")
	answersFile := flag.String("answers", "", "File of prepared answers, one per line, replayed before reading stdin")
	flag.Parse()

	envLoaded, envErr := config.LoadEnvFile(*envFile)
	cfg, cfgErr := config.Load()

	logger := initLogger(*debugMode || (cfg != nil && cfg.Debug))
	if envErr != nil {
		logger.WithError(envErr).Fatal("Failed to load env file")
	}
	if cfgErr != nil {
		logger.WithError(cfgErr).Fatal("Failed to load configuration")
	}

	logger.WithFields(logrus.Fields{
		"version":        AppVersion,
		"env_file":       *envFile,
		"env_loaded":     envLoaded,
		"engine":         cfg.EnginePath,
		"lib_path":       cfg.EngineLibPath,
		"document":       cfg.DocumentPath,
		"inspect_images": cfg.InspectImages,
	}).Debugf("Starting %s", AppName)

	var input prompt.Provider = prompt.NewInteractive(os.Stdin, os.Stdout)
	if *answersFile != "" {
		answers, err := prompt.ReadScript(*answersFile)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load answers")
		}
		input = prompt.NewScripted(answers, os.Stdout, input)
	}

	builderConfig := builder.Config{DocumentPath: cfg.DocumentPath}
	if cfg.InspectImages {
		builderConfig.Inspector = imaging.NewInspector(logger)
	}

	b := builder.New(input, os.Stdout, engine.NewRunner(cfg.Engine(), logger), builderConfig, logger)
	outcome, err := b.Run(context.Background())
	if errors.Is(err, builder.ErrNoOperations) {
		return
	}
	if err != nil {
		logger.WithError(err).Fatal("Pipeline builder stopped")
	}

	logger.WithFields(logrus.Fields{
		"succeeded": outcome.Succeeded,
		"document":  outcome.DocumentPath,
	}).Debug("Session finished")
}

// initLogger initializes the logger with appropriate level
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	// stdout belongs to the prompts
	logger.SetOutput(os.Stderr)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.WarnLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
