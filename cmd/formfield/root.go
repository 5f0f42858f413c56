package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/goliatone/go-formfield/internal/config"
	"github.com/goliatone/go-formfield/internal/schema"
	"github.com/goliatone/go-formfield/pkg/editor"
	"github.com/goliatone/go-formfield/pkg/field"
	"github.com/goliatone/go-formfield/pkg/form"
	"github.com/goliatone/go-formfield/pkg/model"
)

var version = "dev"

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"schema":         "schema",
	"component":      "component",
	"values":         "values",
	"output":         "output",
	"log-level":      "log_level",
	"markdown-style": "markdown_style",
}

type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *slog.Logger
	driver  editor.PromptDriver
}

// newRootCmd builds the CLI. A nil driver uses the interactive survey prompts.
func newRootCmd(driver editor.PromptDriver) *cobra.Command {
	a := &app{v: viper.New(), driver: driver}

	root := &cobra.Command{
		Use:           "formfield",
		Short:         "Edit and render typed form fields",
		Long:          `formfield binds typed field descriptors to a value document, runs interactive edit sessions, and renders field widgets as HTML.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (yaml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.StringP("schema", "s", "", "field descriptor document (yaml/json) or OpenAPI document with --component")
	flags.String("component", "", "OpenAPI component schema to read descriptors from")
	flags.String("values", "", "JSON document holding the field values")
	flags.StringP("output", "o", "", "output file (- for stdout)")

	root.AddCommand(a.editCmd(), a.renderCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || bindErr != nil {
			return
		}
		bindErr = a.v.BindPFlag(key, f)
	})
	if bindErr != nil {
		return fmt.Errorf("bind flags: %w", bindErr)
	}

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, _ := config.ParseLevel(cfg.LogLevel)
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	a.logger.Debug("configuration loaded",
		slog.String("config", a.v.ConfigFileUsed()),
		slog.String("schema", cfg.Schema),
		slog.String("values", cfg.Values),
	)
	return nil
}

func (a *app) loadFields(ctx context.Context) ([]model.Descriptor, error) {
	if strings.TrimSpace(a.cfg.Schema) == "" {
		return nil, errors.New("a --schema document is required")
	}
	if a.cfg.Component == "" {
		return schema.LoadFile(a.cfg.Schema)
	}
	data, err := os.ReadFile(a.cfg.Schema)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a.cfg.Schema, err)
	}
	return schema.FromOpenAPI(ctx, data, a.cfg.Component)
}

func (a *app) loadValues() (map[string]any, error) {
	values := map[string]any{}
	if strings.TrimSpace(a.cfg.Values) == "" {
		return values, nil
	}
	data, err := os.ReadFile(a.cfg.Values)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a.cfg.Values, err)
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", a.cfg.Values, err)
	}
	if values == nil {
		values = map[string]any{}
	}
	return values, nil
}

// output returns the configured writer and a close function.
func (a *app) output(cmd *cobra.Command) (io.Writer, func() error, error) {
	if a.cfg.Output == "" || a.cfg.Output == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(a.cfg.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", a.cfg.Output, err)
	}
	return f, f.Close, nil
}

// finishOutput closes the output and joins a close failure onto err.
func finishOutput(err error, closeOut func() error) error {
	if cerr := closeOut(); cerr != nil {
		return errors.Join(err, fmt.Errorf("close output: %w", cerr))
	}
	return err
}

// bindAll registers every descriptor with state and returns one binder per
// field, in descriptor order.
func (a *app) bindAll(state *form.State, fields []model.Descriptor, opts ...field.Option) ([]*field.Binder, error) {
	opts = append([]field.Option{field.WithLogger(a.logger)}, opts...)
	binders := make([]*field.Binder, 0, len(fields))
	for _, desc := range fields {
		state.Register(desc)
		b, err := field.New(desc, state.Control(desc.Key), opts...)
		if err != nil {
			return nil, err
		}
		binders = append(binders, b)
	}
	return binders, nil
}
