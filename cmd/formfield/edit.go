package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formfield/pkg/editor"
	"github.com/goliatone/go-formfield/pkg/field"
	"github.com/goliatone/go-formfield/pkg/form"
)

func (a *app) editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit field values interactively",
		Long: `Runs an edit session for every field (or the one named by --field).
Each update event is written as a JSON line, followed by the final values.`,
		Args: cobra.NoArgs,
		RunE: a.runEdit,
	}
	cmd.Flags().String("field", "", "only edit the field with this key")
	cmd.Flags().String("markdown-style", "", "glamour style for markup previews")
	cmd.Flags().Bool("reset-on-cancel", false, "hide buttons and clear errors when a change is reverted")
	cmd.Flags().Bool("baseline-on-success", false, "revert to the last valid value instead of the last attempt")
	return cmd
}

func (a *app) runEdit(cmd *cobra.Command, _ []string) (err error) {
	ctx := cmd.Context()

	fields, err := a.loadFields(ctx)
	if err != nil {
		return err
	}
	values, err := a.loadValues()
	if err != nil {
		return err
	}
	only, _ := cmd.Flags().GetString("field")

	out, closeOut, err := a.output(cmd)
	if err != nil {
		return err
	}
	defer func() { err = finishOutput(err, closeOut) }()

	enc := json.NewEncoder(out)
	var encErr error
	opts := []field.Option{field.WithUpdateHandler(func(evt field.UpdateEvent) {
		if err := enc.Encode(evt); err != nil && encErr == nil {
			encErr = err
		}
	})}
	if reset, _ := cmd.Flags().GetBool("reset-on-cancel"); reset {
		opts = append(opts, field.WithResetOnCancel())
	}
	if baseline, _ := cmd.Flags().GetBool("baseline-on-success"); baseline {
		opts = append(opts, field.WithBaselineOnSuccess())
	}

	state := form.NewState(values)
	binders, err := a.bindAll(state, fields, opts...)
	if err != nil {
		return err
	}

	driver := a.driver
	if driver == nil {
		driver = editor.NewSurveyDriver(cmd.ErrOrStderr())
	}
	session := editor.NewSession(
		editor.WithPromptDriver(driver),
		editor.WithMarkdownStyle(a.cfg.MarkdownStyle),
		editor.WithLogger(a.logger),
	)

	edited := 0
	for _, b := range binders {
		if only != "" && b.Key() != only {
			continue
		}
		outcome, err := session.Edit(ctx, b)
		if err != nil {
			return fmt.Errorf("edit %s: %w", b.Key(), err)
		}
		edited++
		a.logger.Info("field edited",
			slog.String("key", outcome.Key),
			slog.Int("attempts", len(outcome.Events)),
			slog.Bool("reverted", outcome.Reverted),
			slog.Bool("valid", outcome.Err == nil),
		)
	}
	if only != "" && edited == 0 {
		return fmt.Errorf("unknown field %q", only)
	}
	if encErr != nil {
		return fmt.Errorf("write update event: %w", encErr)
	}
	if err := enc.Encode(state.Values()); err != nil {
		return fmt.Errorf("write values: %w", err)
	}
	return nil
}
