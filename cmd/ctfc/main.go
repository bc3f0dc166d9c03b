// ctfc compiles and serves static CTF challenge sites. Files opt into
// build-time transformations through first-line compiler directives; the
// serve command applies the same transformations per request instead.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ctfc",
	Short: "CTF site compiler — build & serve with directive processing",
	Long: `ctfc is a static-site compiler for capture-the-flag challenges.

It walks a challenge source tree, copies files into a build output, and
rewrites files that start with a compiler directive comment:

  <!-- COMPILER: directory_listing -->   nginx-style autoindex page
  <!-- COMPILER: html_minify -->         lightweight HTML minification
  <!-- COMPILER: challenge_page -->      shared challenge page template
  // COMPILER: json_minify               compact JSON
  // COMPILER: no_include                exclude the file from output
  // COMPILER: base64_bundle <file>      embed <file> as eval(atob(...))

The serve command applies the same directives on the fly for every request,
so source edits are visible on reload without a build step.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(compileAllCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
