package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trace-mapper/internal/diagnostic"
	"trace-mapper/internal/mapper"
	"trace-mapper/internal/mapping"
	"trace-mapper/internal/schema"
)

// stdio names standard input or output in file arguments.
const stdio = "-"

// mappingFlags are shared by the commands that load a mapping file.
type mappingFlags struct {
	path       string
	validate   bool
	workers    int
	schemaDefs []string
	schemaBase string
}

func (a *app) addMappingFlags(cmd *cobra.Command, f *mappingFlags) {
	cmd.Flags().StringVarP(&f.path, "map", "m", "", "Mapping configuration file (.json, .yaml)")
	cmd.Flags().BoolVar(&f.validate, "validate", a.env.Validate, "Check input_schema and output_schema")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", a.env.Workers, "Goroutines mapping events")
	cmd.Flags().StringSliceVar(&f.schemaDefs, "schema-defs", a.env.SchemaDefinitions, "Shared JSON Schema definitions files")
	cmd.Flags().StringVar(&f.schemaBase, "schema-base-uri", a.env.SchemaBaseURI, "Base URI of relative schema references")
	_ = cmd.MarkFlagRequired("map")
}

// loadConfig compiles the mapping file and logs its warnings.
func (a *app) loadConfig(f *mappingFlags) (*mapping.Config, *diagnostic.Diagnostics, error) {
	reg, err := schema.LoadRegistry(f.schemaBase, f.schemaDefs...)
	if err != nil {
		return nil, nil, &diagnostic.ConfigError{Reason: "loading schema definitions", Err: err}
	}

	cfg, diags, err := mapping.LoadFile(f.path, reg)

	if diags != nil {
		for _, w := range diags.Warnings {
			a.log.Warn(w.Message, zap.String("scope", w.Scope), zap.String("path", w.Path), zap.Strings("suggestions", w.Suggestions))
		}
	}

	if err != nil {
		return nil, diags, err
	}

	a.log.Debug("mapping loaded",
		zap.String("path", f.path),
		zap.Int("pairs", cfg.Len()),
		zap.Int("schema_definitions", reg.Len()),
	)

	return cfg, diags, nil
}

func (a *app) loadMapper(f *mappingFlags) (*mapper.Mapper, error) {
	if f.workers < 1 {
		return nil, &diagnostic.ConfigError{Reason: fmt.Sprintf("--workers must be at least 1, got %d", f.workers)}
	}

	cfg, _, err := a.loadConfig(f)
	if err != nil {
		return nil, err
	}

	return mapper.New(cfg, mapper.WithValidation(f.validate), mapper.WithLogger(a.log)), nil
}

// openInput opens a file argument, "-" being standard input.
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == stdio {
		return io.NopCloser(cmd.InOrStdin()), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	return f, nil
}

// writeOutput calls write with the output file, "-" or "" being standard
// output. The file is replaced only when write succeeds.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" || path == stdio {
		return write(cmd.OutOrStdout())
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".trace-mapper-*")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}

	return nil
}
