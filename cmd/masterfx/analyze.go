package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KEYHAN-A/AudioMaster/audiofile"
	"github.com/KEYHAN-A/AudioMaster/mastering"
	"github.com/KEYHAN-A/AudioMaster/measure/analysis"
)

func newAnalyzeCmd(log *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:           "analyze <file>",
		Short:         "Measure loudness, dynamics, and spectral balance of a file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			buf, err := audiofile.Read(path)
			if err != nil {
				printJSON(cmd, mastering.Failure(err))
				return err
			}

			log.Info("analyzing",
				zap.String("input", path),
				zap.Int("channels", buf.NumChannels()),
				zap.Int("sample_rate", buf.SampleRate))

			report, err := analysis.Compute(path, buf)
			if err != nil {
				printJSON(cmd, mastering.Failure(err))
				return err
			}

			printJSON(cmd, report)

			return nil
		},
	}
}
