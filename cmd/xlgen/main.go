// Command xlgen builds xlsx workbooks from YAML manifests.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/adnsv/go-xlsxw/internal/manifest"
	"github.com/adnsv/go-xlsxw/xl"
)

// version is set at link time with -ldflags "-X main.version=..."
var version = "dev"

var (
	outputPath string
	dirPath    string
	indent     bool
	noCache    bool
	verbose    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "xlgen:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "xlgen",
		Short:         "Build xlsx workbooks from YAML manifests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	buildCmd := &cobra.Command{
		Use:   "build [manifest.yaml]",
		Short: "Write the workbook described by a manifest",
		Long: `build reads a YAML manifest (sheets, cells, columns, rows, formats and
charts) and writes it as an xlsx container, or as an unpacked part tree
with --dir.`,
		Args: cobra.ExactArgs(1),
		RunE: runBuild,
	}
	buildCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output xlsx path")
	buildCmd.Flags().StringVar(&dirPath, "dir", "", "Write the package parts into a directory instead")
	buildCmd.Flags().BoolVar(&indent, "indent", false, "Indent XML parts")
	buildCmd.Flags().BoolVar(&noCache, "no-cache", false, "Do not fill chart data caches from cell values")
	buildCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every written part")
	buildCmd.MarkFlagsOneRequired("output", "dir")
	buildCmd.MarkFlagsMutuallyExclusive("output", "dir")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the xlgen version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "xlgen", version)
		},
	}

	rootCmd.AddCommand(buildCmd, versionCmd)
	return rootCmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	m, err := manifest.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	wb, err := m.Build()
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	wb.SetLogger(logger)

	opts := xl.Options{Indent: indent, SkipDataCache: noCache}
	if dirPath != "" {
		if err := wb.Write(xl.NewDirStorage(dirPath), opts); err != nil {
			return fmt.Errorf("failed to write %s: %w", dirPath, err)
		}
		return nil
	}
	if err := wb.SaveAs(outputPath, opts); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return nil
}
