package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Wyatt-Stanke/ctf/internal/builder"
	"github.com/Wyatt-Stanke/ctf/internal/site"
)

var (
	outputDir string
	watchMode bool
)

// compileCmd builds a single challenge directory
var compileCmd = &cobra.Command{
	Use:   "compile <source>",
	Short: "Apply directives and output a single challenge",
	Long: `Compiles one challenge source directory into <output>/<name>/.

The output directory is wiped before every build, so it is always a clean
snapshot of the source with directives applied. Any single file's directive
failure aborts the whole build.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

// compileAllCmd discovers and builds every challenge under the current dir
var compileAllCmd = &cobra.Command{
	Use:   "compile-all",
	Short: "Discover and compile every challenge directory",
	Long: `Discovers challenge groups in the current directory (directories with a
.group.json sidecar, plus standalone challenges carrying .challenge.json),
compiles each challenge flat into <output>/<name>/, and generates the root
homepage listing them all.`,
	RunE: runCompileAll,
}

func init() {
	for _, cmd := range []*cobra.Command{compileCmd, compileAllCmd} {
		cmd.Flags().StringVarP(&outputDir, "output", "o", "dist", "Output root directory")
		cmd.Flags().BoolVar(&watchMode, "watch", false, "Rebuild whenever the source changes (Ctrl+C to stop)")
	}
}

func runCompile(cmd *cobra.Command, args []string) error {
	source, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	if !isDir(source) {
		return fmt.Errorf("source directory %s does not exist", source)
	}
	dest := filepath.Join(mustAbs(outputDir), filepath.Base(source))

	build := func() error {
		fmt.Printf("Compiling %s -> %s\n", source, dest)
		if err := builder.Compile(source, dest, builder.Options{
			Log:      logger,
			Progress: printProgress,
		}); err != nil {
			return err
		}
		fmt.Println("Done.")
		return nil
	}

	if err := build(); err != nil {
		return err
	}
	if watchMode {
		return watchAndRebuild(source, build)
	}
	return nil
}

func runCompileAll(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		return err
	}
	outRoot := mustAbs(outputDir)

	build := func() error {
		groups, err := site.DiscoverGroups(root)
		if err != nil {
			return err
		}
		challenges := site.AllChallenges(groups)
		if len(challenges) == 0 {
			return fmt.Errorf("no challenge directories found under %s", root)
		}

		var names []string
		for _, g := range groups {
			var cs []string
			for _, c := range g.Challenges {
				cs = append(cs, filepath.Base(c))
			}
			names = append(names, fmt.Sprintf("%s (%s)", g.Name, strings.Join(cs, ", ")))
		}
		fmt.Printf("Found %d challenge(s) in %d group(s): %s\n",
			len(challenges), len(groups), strings.Join(names, ", "))

		for _, source := range challenges {
			// Output is always flat: dist/<challenge_name>/
			dest := filepath.Join(outRoot, filepath.Base(source))
			rel, _ := filepath.Rel(root, source)
			fmt.Printf("\nCompiling %s/ -> %s\n", rel, dest)
			if err := builder.Compile(source, dest, builder.Options{
				Log:      logger,
				Progress: printProgress,
			}); err != nil {
				return err
			}
		}

		fmt.Println("\nGenerating homepage...")
		total, err := site.GenerateHomepage(groups, outRoot)
		if err != nil {
			return err
		}
		fmt.Printf("  homepage  index.html  (%d challenge(s) in %d group(s))\n", total, len(groups))
		fmt.Println("\nAll done.")
		return nil
	}

	if err := build(); err != nil {
		return err
	}
	if watchMode {
		return watchAndRebuild(root, build)
	}
	return nil
}

// watchAndRebuild blocks, rebuilding on source changes, until interrupted.
// In watch mode a failing rebuild is reported but keeps watching; the fatal
// exit semantics apply to the initial build only.
func watchAndRebuild(root string, build func() error) error {
	w, err := builder.NewWatcher(root, logger, func() {
		if err := build(); err != nil {
			fmt.Fprintln(os.Stderr, styleError.Render(fmt.Sprintf("build failed: %v", err)))
		}
	})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	fmt.Println("Watching for changes (Ctrl+C to stop)")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	fmt.Println("\nStopping.")
	return nil
}

func printProgress(action, rel, note string) {
	if note != "" {
		note = "  (" + note + ")"
	}
	switch action {
	case "copy":
		fmt.Printf("  %s  %s\n", styleCopy.Render("copy"), rel)
	case "skip":
		fmt.Printf("  %s  %s%s\n", styleSkip.Render("skip"), rel, note)
	default:
		fmt.Printf("  %s  %s\n", styleDirective.Render(fmt.Sprintf("%-20s", action)), rel)
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
