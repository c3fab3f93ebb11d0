package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumeshell/lume/internal/config"
	"github.com/lumeshell/lume/internal/config/schema"
	"github.com/lumeshell/lume/internal/shell"
)

// newConfigCmd builds the `lume config` command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and mutate the shell configuration",
	}
	cmd.AddCommand(
		newGetCmd(),
		newSetCmd(),
		newResetCmd(),
		newSchemaCmd(),
		newWatchCmd(),
	)
	return cmd
}

// openEngine loads the configuration engine for one CLI invocation.
func openEngine() (*config.Engine, error) {
	return config.New(configPath(), shell.Schema(), config.WithLogger(newLogger()))
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "Print the current value at a dotted path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine()
			if err != nil {
				return err
			}
			defer eng.Close()

			value, err := eng.Get(args[0])
			if err != nil {
				return err
			}
			out, err := json.Marshal(value)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <path> <value>",
		Short: "Validate and write a value to its owning config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine()
			if err != nil {
				return err
			}
			eng.Start()
			defer eng.Close()

			return eng.Set(cmd.Context(), args[0], args[1])
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <path>",
		Short: "Remove the override for a path from its owning config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine()
			if err != nil {
				return err
			}
			eng.Start()
			defer eng.Close()

			return eng.Reset(cmd.Context(), args[0])
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Emit the configuration schema as JSON for editor tooling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := schema.Emit(shell.Schema(), shell.SchemaVersion)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [prefix]",
		Short: "Stream change events for a subtree as config files are edited",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}

			eng, err := openEngine()
			if err != nil {
				return err
			}
			eng.Start()
			defer eng.Close()

			sub, err := eng.Subscribe(prefix)
			if err != nil {
				return err
			}
			defer sub.Cancel()

			logger := newLogger()
			go func() {
				for ev := range eng.Errors() {
					logger.Error("reload failed", "err", ev.Err)
				}
			}()

			fmt.Fprintf(os.Stderr, "watching %q, ctrl-c to stop\n", prefix)
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case ev := <-sub.Events():
					fmt.Fprintf(cmd.OutOrStdout(), "v%d %s %s\n", ev.Version, ev.Prefix, ev.Raw)
				}
			}
		},
	}
}
