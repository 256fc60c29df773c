package cli

import (
	"github.com/spf13/cobra"

	"llamapack/internal/common/fsutil"
	"llamapack/internal/loggate"
	"llamapack/internal/smoke"
)

func newSmokeCmd(opts *Options) *cobra.Command {
	var (
		modelPath string
		ctxSize   int
		threads   int
		nativeLog int
	)
	cmd := &cobra.Command{
		Use:     "smoke",
		Short:   "Load a GGUF model through the staged libraries (requires -tags llama)",
		Example: "  llamapack smoke --model ~/models/llm/tinyllama-q4.gguf --native-log 2",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("native-log") {
				nativeLog = opts.Config.NativeLogLevel
				if nativeLog == 0 {
					nativeLog = loggate.DefaultLevel
				}
			}
			// Arm the severity gate before the native libraries start talking.
			loggate.SetLogLevel(nativeLog)
			model, err := fsutil.ExpandHome(modelPath)
			if err != nil {
				return err
			}
			if err := smoke.Check(model, smoke.Options{CtxSize: ctxSize, Threads: threads}); err != nil {
				return err
			}
			opts.Logger.Info().Str("model", model).Msg("smoke check passed")
			return nil
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "GGUF model file to load")
	cmd.Flags().IntVar(&ctxSize, "ctx-size", 0, "Context size for the throwaway load")
	cmd.Flags().IntVar(&threads, "threads", 0, "Thread count for the single-token generation")
	cmd.Flags().IntVar(&nativeLog, "native-log", loggate.DefaultLevel, "Native log threshold: 0=off 1=debug 2=info 3=warn 4=error")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}
