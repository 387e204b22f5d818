package app

import "errors"

// Config holds everything a single generation run needs.
type Config struct {
	KindsPaths   []string // schema files, in dispatch order
	TemplatePath string
	OutputPath   string
	Command      string // literal invocation recorded in the output header

	LogFormat  string
	LogLevel   string
	NoValidate bool
	DryRun     bool
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.KindsPaths) == 0 {
		return nil, errors.New("at least one kinds file is required")
	}
	if cfg.TemplatePath == "" {
		return nil, errors.New("TemplatePath is a required configuration field and cannot be empty")
	}
	if cfg.OutputPath == "" && !cfg.DryRun {
		return nil, errors.New("OutputPath is a required configuration field and cannot be empty")
	}
	cfg.KindsPaths = append([]string(nil), cfg.KindsPaths...)
	return &cfg, nil
}
