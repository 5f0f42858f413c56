package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formfield/pkg/form"
	"github.com/goliatone/go-formfield/pkg/view"
)

func (a *app) renderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Render every field as an HTML fragment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			fields, err := a.loadFields(cmd.Context())
			if err != nil {
				return err
			}
			values, err := a.loadValues()
			if err != nil {
				return err
			}
			binders, err := a.bindAll(form.NewState(values), fields)
			if err != nil {
				return err
			}

			renderer, err := view.New(view.WithLogger(a.logger))
			if err != nil {
				return err
			}
			html, err := renderer.RenderAll(binders)
			if err != nil {
				return err
			}

			out, closeOut, err := a.output(cmd)
			if err != nil {
				return err
			}
			defer func() { err = finishOutput(err, closeOut) }()
			if _, err := io.WriteString(out, html); err != nil {
				return fmt.Errorf("write html: %w", err)
			}
			return nil
		},
	}
}
