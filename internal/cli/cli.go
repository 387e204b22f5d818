package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/mkexpr/internal/app"
	"github.com/vk/mkexpr/internal/config"
)

// Exit codes.
const (
	ExitSchema = 1 // missing, unparsable or inconsistent kinds files
	ExitUsage  = 2 // bad command-line arguments
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// pathList collects every value of a repeatable flag.
type pathList []string

func (p *pathList) String() string { return strings.Join(*p, " ") }

func (p *pathList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

// Parse processes command-line arguments. program is argv[0] and args the
// remaining arguments; both are recorded verbatim as the generation command.
// It returns a populated Config, a boolean indicating if the program should
// exit cleanly, or an ExitError.
func Parse(program string, args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("mkexpr", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
mkexpr - Generate the type checker implementation from kinds files.

Usage:
  mkexpr --kinds FILE [FILE...] --template FILE --output FILE [options]

Kinds files are read in the given order, which is also the order of the
generated dispatch arms. Supported formats: .toml, .yaml, .yml, .hcl, .json.
An argument starting with '-' ends the kinds list, so name such files with a
directory prefix (./-kinds.toml).

Options:
`)
		flagSet.PrintDefaults()
	}

	var kinds pathList
	flagSet.Var(&kinds, "kinds", "Kinds `file`(s). Every argument up to the next flag is a file; may be repeated.")
	templateFlag := flagSet.String("template", "", "Path to the type checker template.")
	outputFlag := flagSet.String("output", "", "Path of the generated file.")
	logFormatFlag := flagSet.String("log-format", "auto", "Log output format. Options: 'text', 'json' or 'auto'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	noValidateFlag := flagSet.Bool("no-validate", false, "Skip the kinds file consistency checks.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Print the generated file to stdout instead of writing it.")

	if err := flagSet.Parse(expandMultiValue(args, "kinds")); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("unrecognized arguments: %s", strings.Join(flagSet.Args(), " "))}
	}
	slog.Debug("Arguments parsed successfully.", "kinds", len(kinds))

	var missing []string
	if len(kinds) == 0 {
		missing = append(missing, "--kinds")
	}
	if *templateFlag == "" {
		missing = append(missing, "--template")
	}
	if *outputFlag == "" && !*dryRunFlag {
		missing = append(missing, "--output")
	}
	if len(missing) > 0 {
		return nil, false, &ExitError{Code: ExitUsage, Message: "the following arguments are required: " + strings.Join(missing, ", ")}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	switch logFormat {
	case "text", "json", "auto":
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-format: must be 'text', 'json' or 'auto'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	cfg, err := app.NewConfig(app.Config{
		KindsPaths:   kinds,
		TemplatePath: *templateFlag,
		OutputPath:   *outputFlag,
		Command:      strings.Join(append([]string{program}, args...), " "),
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		NoValidate:   *noValidateFlag,
		DryRun:       *dryRunFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}

// expandMultiValue rewrites "--name a b --other" into "--name a --name b
// --other" so the standard flag package can collect a multi-valued flag.
func expandMultiValue(args []string, name string) []string {
	out := make([]string, 0, len(args))
	collecting := false
	for i, arg := range args {
		switch {
		case arg == "--":
			return append(out, args[i:]...)
		case arg == "-"+name || arg == "--"+name:
			collecting = true
			continue
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			collecting = false
		case collecting:
			out = append(out, "--"+name, arg)
			continue
		}
		out = append(out, arg)
	}
	return out
}

// Report converts a pipeline error into the exit code and message shown to
// the user. Schema errors name the offending file.
func Report(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	var (
		missingErr *config.MissingInputFileError
		parseErr   *config.SchemaParseError
		valErr     *config.SchemaValidationError
		fieldErr   *config.MissingRequiredFieldError
	)
	switch {
	case errors.As(err, &missingErr):
		return &ExitError{Code: ExitSchema, Message: missingErr.Error()}
	case errors.As(err, &parseErr):
		return schemaExit(parseErr.Path, parseErr.Err.Error())
	case errors.As(err, &valErr):
		return schemaExit(valErr.Path, "- "+strings.Join(valErr.Problems, "\n- "))
	case errors.As(err, &fieldErr):
		return schemaExit(fieldErr.Path, fmt.Sprintf("missing required field %q", fieldErr.Field))
	}
	return &ExitError{Code: ExitSchema, Message: err.Error()}
}

func schemaExit(path, detail string) *ExitError {
	return &ExitError{Code: ExitSchema, Message: fmt.Sprintf("Could not parse file %s\n%s", path, detail)}
}
