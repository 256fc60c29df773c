package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"llamapack/internal/common/fsutil"
	"llamapack/internal/manifest"
)

func (o *Options) binDir(flagValue string) (string, error) {
	dir := flagValue
	if dir == "" {
		dir = o.Config.BinDir
	}
	if dir == "" {
		dir = "bin"
	}
	return fsutil.ExpandHome(dir)
}

func newManifestCmd(opts *Options) *cobra.Command {
	var binDir, version, out string
	cmd := &cobra.Command{
		Use:     "manifest",
		Short:   "Emit manifest.json and SHA256SUMS for the staged binaries",
		Example: "  llamapack manifest --bin-dir bin --version b6293",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := opts.binDir(binDir)
			if err != nil {
				return err
			}
			if version == "" {
				version = opts.Config.Version
			}
			if version == "" {
				return fmt.Errorf("--version is required (or set version in the config file)")
			}
			m, err := manifest.Generate(dir, version)
			if err != nil {
				return err
			}
			outDir := out
			if outDir == "" {
				outDir = dir
			}
			if err := manifest.Write(m, filepath.Join(outDir, manifest.ManifestName)); err != nil {
				return err
			}
			if err := manifest.WriteChecksums(m, filepath.Join(outDir, manifest.ChecksumsName)); err != nil {
				return err
			}
			opts.Logger.Info().
				Int("artifacts", len(m.Artifacts)).
				Str("version", m.Version).
				Str("dir", outDir).
				Msg("manifest written")
			return nil
		},
	}
	cmd.Flags().StringVar(&binDir, "bin-dir", "", "Binaries root to scan (defaults to config or ./bin)")
	cmd.Flags().StringVar(&version, "version", "", "Release version stamped into the manifest")
	cmd.Flags().StringVar(&out, "out", "", "Output directory (defaults to --bin-dir)")
	return cmd
}

func newVerifyCmd(opts *Options) *cobra.Command {
	var binDir, manifestPath string
	cmd := &cobra.Command{
		Use:     "verify",
		Short:   "Re-hash the staged binaries against an existing manifest",
		Example: "  llamapack verify --bin-dir bin",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := opts.binDir(binDir)
			if err != nil {
				return err
			}
			p := manifestPath
			if p == "" {
				p = filepath.Join(dir, manifest.ManifestName)
			}
			m, err := manifest.Load(p)
			if err != nil {
				return err
			}
			rep, err := manifest.Verify(dir, m)
			if err != nil {
				return err
			}
			if !rep.Clean() {
				return fmt.Errorf("verification failed: %s", rep)
			}
			opts.Logger.Info().Str("version", m.Version).Int("artifacts", len(m.Artifacts)).Msg("verification ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&binDir, "bin-dir", "", "Binaries root to verify (defaults to config or ./bin)")
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Manifest path (defaults to <bin-dir>/manifest.json)")
	return cmd
}
