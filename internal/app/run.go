package app

import (
	"context"
	"fmt"

	"github.com/vk/mkexpr/internal/codegen"
	"github.com/vk/mkexpr/internal/config"
	"github.com/vk/mkexpr/internal/ctxlog"
	"github.com/vk/mkexpr/internal/fsutil"
	"github.com/vk/mkexpr/internal/loader"
)

// Run executes one full generation: it loads the template, reads every
// kinds file in order, renders the template and writes the output. Any
// error leaves the App in StateFailed and the output file untouched.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.state = StateInit
	defer func() {
		if err != nil {
			a.transition(StateFailed, "error", err)
		}
	}()

	tmpl, err := codegen.LoadTemplate(a.config.TemplatePath)
	if err != nil {
		return err
	}
	a.transition(StateTemplateLoaded, "bytes", tmpl.Len())

	missing, err := fsutil.MissingFiles(a.config.KindsPaths)
	if err != nil {
		return fmt.Errorf("check kinds files: %w", err)
	}
	if len(missing) > 0 {
		return &config.MissingInputFileError{Paths: missing}
	}

	// Dispatch keys are tracked per run, so every Run gets its own validator.
	schemas := loader.New(a.newValidator(), loader.WithObserver(a.observeLoad))
	fragments := codegen.NewFragmentSet()
	for _, path := range a.config.KindsPaths {
		theory, err := schemas.Load(ctx, path)
		if err != nil {
			return err
		}
		if err := fragments.AddTheory(theory); err != nil {
			return err
		}
		a.transition(StateAccumulated, "file", path, "kinds", len(theory.Kinds))
	}
	fragments.Seal()

	body, err := tmpl.Render(fragments)
	if err != nil {
		return err
	}
	a.transition(StateSubstituted,
		"typerule_arms", fragments.TypeRuleArms(),
		"construle_arms", fragments.ConstRuleArms(),
		"theories", fragments.Theories(),
	)

	header := codegen.Header(a.clock().Year(), a.config.Command, tmpl.Path())
	if a.config.DryRun {
		if _, err := a.outW.Write(append(header, body...)); err != nil {
			return fmt.Errorf("write dry-run output: %w", err)
		}
	} else if err := codegen.Emit(a.config.OutputPath, header, body); err != nil {
		return err
	}
	a.transition(StateEmitted, "output", a.config.OutputPath, "dry_run", a.config.DryRun)

	a.transition(StateDone)
	a.logger.Info("Type checker generated.", "output", a.config.OutputPath, "theories", fragments.Theories())
	return nil
}

func (a *App) observeLoad(stage loader.Stage, path string) {
	switch stage {
	case loader.StageParsed:
		a.transition(StateParsed, "file", path)
	case loader.StageValidated:
		a.transition(StateValidated, "file", path)
	}
}
