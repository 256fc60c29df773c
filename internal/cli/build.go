package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"llamapack/internal/buildkit"
)

func (o *Options) kit(repoRoot string, jobs int, clean bool) *buildkit.Kit {
	root := repoRoot
	if root == "" {
		root = o.Config.RepoRoot
	}
	if root == "" {
		root, _ = os.Getwd()
	}
	if jobs == 0 {
		jobs = o.Config.Jobs
	}
	k := buildkit.New(root)
	k.Jobs = jobs
	k.Clean = clean
	return k
}

func newBuildCmd(opts *Options) *cobra.Command {
	var (
		repoRoot string
		jobs     int
		clean    bool
	)
	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build native llama.cpp binaries via CMake presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("build requires a subcommand: apple|linux|android|windows")
		},
	}
	buildCmd.PersistentFlags().StringVar(&repoRoot, "repo-root", "", "Checkout containing CMakePresets.json and third_party/ (defaults to config or cwd)")
	buildCmd.PersistentFlags().IntVar(&jobs, "jobs", 0, "Parallel job count passed to cmake --build")
	buildCmd.PersistentFlags().BoolVar(&clean, "clean", false, "Delete preset build directory before configure")

	var appleTarget string
	apple := &cobra.Command{
		Use:     "apple",
		Short:   "Build Apple targets",
		Example: "  llamapack build apple --target macos-arm64",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.kit(repoRoot, jobs, clean).BuildApple(cmd.Context(), appleTarget)
		},
	}
	apple.Flags().StringVar(&appleTarget, "target", "", "Apple target (see 'llamapack list')")
	_ = apple.MarkFlagRequired("target")

	var linuxArch, linuxBackend string
	linux := &cobra.Command{
		Use:     "linux",
		Short:   "Build Linux shared libraries",
		Example: "  llamapack build linux --backend vulkan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.kit(repoRoot, jobs, clean).BuildLinux(cmd.Context(), linuxArch, linuxBackend)
		},
	}
	linux.Flags().StringVar(&linuxArch, "arch", "", "x64|arm64 (defaults to host)")
	linux.Flags().StringVar(&linuxBackend, "backend", "full", "full|vulkan|cuda|blas")

	var abi, androidBackend string
	android := &cobra.Command{
		Use:     "android",
		Short:   "Build Android shared libraries",
		Example: "  llamapack build android --abi all --backend full",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.kit(repoRoot, jobs, clean).BuildAndroid(cmd.Context(), abi, androidBackend)
		},
	}
	android.Flags().StringVar(&abi, "abi", "all", "arm64-v8a|x86_64|all")
	android.Flags().StringVar(&androidBackend, "backend", "full", "full|vulkan|opencl")

	var winArch, winBackend, vulkanSDK string
	windows := &cobra.Command{
		Use:     "windows",
		Short:   "Build Windows shared libraries",
		Example: "  llamapack build windows --arch x64 --backend full",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.kit(repoRoot, jobs, clean).BuildWindows(cmd.Context(), winArch, winBackend, vulkanSDK)
		},
	}
	windows.Flags().StringVar(&winArch, "arch", "x64", "x64|arm64")
	windows.Flags().StringVar(&winBackend, "backend", "full", "full|vulkan|cuda|blas")
	windows.Flags().StringVar(&vulkanSDK, "vulkan-sdk", "", "Vulkan SDK root (defaults to VULKAN_SDK or glslc location)")

	buildCmd.AddCommand(apple, linux, android, windows)
	return buildCmd
}

func newCollectCmd(opts *Options) *cobra.Command {
	var buildDir, outDir string
	cmd := &cobra.Command{
		Use:     "collect",
		Short:   "Stage runtime libraries from a build tree into bin/<os>/<arch>",
		Example: "  llamapack collect --build-dir build/linux-x64-full --out bin/linux/x64",
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildkit.CopyRuntimeLibraries(buildDir, outDir)
		},
	}
	cmd.Flags().StringVar(&buildDir, "build-dir", "", "CMake build directory to scan")
	cmd.Flags().StringVar(&outDir, "out", "", "Destination directory (reset before copy)")
	_ = cmd.MarkFlagRequired("build-dir")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List supported platform/target combinations",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range buildkit.PresetSummaries() {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}
