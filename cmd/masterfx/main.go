// Command masterfx applies a mastering chain to an audio file.
//
// It takes a single JSON request argument and prints a single JSON
// result on stdout. Diagnostics go to stderr so the result stream stays
// machine-readable. The exit status is non-zero only on failure.
//
// Examples:
//
//	masterfx '{"input":"in.wav","output":"out.wav","params":{"target_lufs":-14}}'
//	masterfx analyze in.wav
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KEYHAN-A/AudioMaster/mastering"
)

func main() {
	log := newLogger()
	defer log.Sync() //nolint:errcheck

	root := newRootCmd(log)
	root.AddCommand(newAnalyzeCmd(log))

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(log *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:           "masterfx <request-json>",
		Short:         "Apply a mastering chain to an audio file",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Arg-count failures go through the same JSON result path as
			// every other failure.
			if len(args) > 1 {
				err := fmt.Errorf("%w: expected a single JSON argument, got %d",
					mastering.ErrValidation, len(args))
				printJSON(cmd, mastering.Failure(err))

				return err
			}

			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}

			pipeline := mastering.New(mastering.WithLogger(log))

			result, err := pipeline.Run(arg)
			printJSON(cmd, result)

			return err
		},
	}
}

// printJSON writes the structured result to stdout. Marshaling a Result
// cannot fail, but a guard keeps the contract of always emitting JSON.
func printJSON(cmd *cobra.Command, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		raw = []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(raw))
}

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}

	return log
}
