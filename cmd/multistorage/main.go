// Command multistorage inspects and edits a namespaced store from the shell.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/khicago/multistorage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	configPath string
	verbose    bool
	flags      multistorage.Config

	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:   "multistorage",
		Short: "Read and write a namespaced key-value store",
		Long: `multistorage operates on the blob stored under one main key.

The durable backend is chosen with --driver (file, bolt, sqlite) and rooted
at --file-path, which defaults to ./<main-key>.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if o.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			o.logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if o.logger != nil {
				_ = o.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&o.flags.MainKey, "main-key", "", "namespace key (default \"multistorage\")")
	pf.StringVar(&o.flags.FilePath, "file-path", "", "location of the durable backend")
	pf.StringVar(&o.flags.Driver, "driver", "", "durable backend: file, bolt or sqlite")
	pf.StringVar(&o.flags.Format, "format", "", "blob format: json or yaml")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "get KEY",
			Short: "Print the value stored under KEY as JSON",
			Args:  cobra.ExactArgs(1),
			RunE: o.withStore(func(ctx context.Context, cmd *cobra.Command, s *multistorage.Store, args []string) error {
				v, err := s.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), v)
			}),
		},
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Store VALUE under KEY; VALUE is parsed as JSON, else kept as a string",
			Args:  cobra.ExactArgs(2),
			RunE: o.withStore(func(ctx context.Context, cmd *cobra.Command, s *multistorage.Store, args []string) error {
				return s.Set(ctx, args[0], parseValue(args[1]))
			}),
		},
		&cobra.Command{
			Use:   "delete KEY",
			Short: "Remove KEY from the store",
			Args:  cobra.ExactArgs(1),
			RunE: o.withStore(func(ctx context.Context, cmd *cobra.Command, s *multistorage.Store, args []string) error {
				return s.Delete(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the whole store",
			Args:  cobra.NoArgs,
			RunE: o.withStore(func(ctx context.Context, cmd *cobra.Command, s *multistorage.Store, args []string) error {
				return s.Clear(ctx)
			}),
		},
		&cobra.Command{
			Use:   "dump",
			Short: "Print the whole store as JSON",
			Args:  cobra.NoArgs,
			RunE: o.withStore(func(ctx context.Context, cmd *cobra.Command, s *multistorage.Store, args []string) error {
				m, err := s.GetStore(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), m)
			}),
		},
		&cobra.Command{
			Use:   "load FILE",
			Short: "Replace the whole store with the JSON object in FILE (- for stdin)",
			Args:  cobra.ExactArgs(1),
			RunE: o.withStore(func(ctx context.Context, cmd *cobra.Command, s *multistorage.Store, args []string) error {
				var r io.Reader = cmd.InOrStdin()
				if args[0] != "-" {
					f, err := os.Open(args[0])
					if err != nil {
						return err
					}
					defer f.Close()
					r = f
				}
				var m map[string]any
				if err := json.NewDecoder(r).Decode(&m); err != nil {
					return fmt.Errorf("decode %s: %w", args[0], err)
				}
				return s.SetStore(ctx, m)
			}),
		},
	)

	return root
}

func (o *options) config() (multistorage.Config, error) {
	cfg := multistorage.Config{}
	if o.configPath != "" {
		var err error
		if cfg, err = multistorage.LoadConfig(o.configPath); err != nil {
			return cfg, err
		}
	}
	cfg.Merge(&o.flags)
	return cfg, nil
}

type storeFunc func(ctx context.Context, cmd *cobra.Command, s *multistorage.Store, args []string) error

func (o *options) withStore(fn storeFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := o.config()
		if err != nil {
			return err
		}
		s, err := multistorage.New(cfg,
			multistorage.WithLogger(multistorage.NewZapLogger(o.logger)),
			multistorage.WithLogTag("[cli]"))
		if err != nil {
			return err
		}
		defer s.Close()

		o.logger.Debug("Opened store",
			zap.String("main_key", s.MainKey()),
			zap.String("storage_type", s.StorageType()),
			zap.String("file_path", s.FilePath()))

		return fn(cmd.Context(), cmd, s, args)
	}
}

func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
