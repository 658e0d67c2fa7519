package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jsvensson/hueforge"
	"github.com/jsvensson/hueforge/internal/format"
	"github.com/jsvensson/hueforge/internal/install"
	"github.com/jsvensson/hueforge/internal/watch"
)

var (
	flagOut           string
	flagInstallTarget string
	flagCheck         bool
	flagFormat        string
	version           = "dev" // Injected at build time via ldflags
)

var rootCmd = &cobra.Command{
	Use:     "hueforge",
	Short:   "Compile structured theme markup into editor theme JSON",
	Version: version,
}

var generateCmd = &cobra.Command{
	Use:   "generate <theme-file>",
	Short: "Compile a theme file to JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

var installCmd = &cobra.Command{
	Use:   "install <theme-file>",
	Short: "Compile a theme file and install it into the editor's theme directory",
	RunE:  runInstall,
	Args:  cobra.ExactArgs(1),
}

var watchCmd = &cobra.Command{
	Use:   "watch <theme-file>",
	Short: "Recompile the theme whenever the file changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate <theme-json>",
	Short: "Convert an existing JSON theme family back into theme markup",
	Args:  cobra.ExactArgs(1),
	RunE:  runMigrate,
}

var exportPaletteCmd = &cobra.Command{
	Use:   "export-palette <theme-file>",
	Short: "Print the resolved palette colors",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportPalette,
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format theme files",
	Long:  "Format one or more theme files in-place. Prints the name of each file that was modified.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	generateCmd.Flags().StringVarP(&flagOut, "outfile", "o", "", "output path (default generated/<name>.json, - for stdout)")
	watchCmd.Flags().StringVarP(&flagOut, "outfile", "o", "", "output path (default generated/<name>.json)")
	installCmd.Flags().StringVarP(&flagInstallTarget, "install-location", "i", "", "directory to install into (default: the editor's theme directory)")
	migrateCmd.Flags().StringVarP(&flagOut, "outfile", "o", "", "output path (default generated/<name>.huetheme, - for stdout)")
	exportPaletteCmd.Flags().StringVar(&flagFormat, "format", "table", "output format: table, plain or tuples")
	fmtCmd.Flags().BoolVarP(&flagCheck, "check", "c", false, "check if files are formatted (do not write changes)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(exportPaletteCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(versionCmd)
}

func generateTo(path, outPath string) error {
	var buf bytes.Buffer
	if _, err := hueforge.Generate(path, &buf); err != nil {
		return err
	}
	if outPath == "-" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	return install.WriteFileAtomic(outPath, buf.Bytes())
}

func outPathFor(source string) string {
	if flagOut != "" {
		return flagOut
	}
	return install.DefaultOutputPath(source)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	outPath := outPathFor(args[0])
	if err := generateTo(args[0], outPath); err != nil {
		return err
	}
	if outPath != "-" {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
	}
	return nil
}

func runInstall(cmd *cobra.Command, args []string) error {
	var buf bytes.Buffer
	out, err := hueforge.Generate(args[0], &buf)
	if err != nil {
		return err
	}

	dir := flagInstallTarget
	if dir == "" {
		dir, err = install.ThemesDir()
		if err != nil {
			return err
		}
	}

	target, err := install.Install(dir, out.Name, buf.Bytes())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Installed %s\n", target)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	source := args[0]
	outPath := outPathFor(source)

	// Compile once up front so obvious problems surface immediately.
	if err := generateTo(source, outPath); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", source)
	w := &watch.Watcher{
		Path: source,
		OnChange: func() error {
			if err := generateTo(source, outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
			return nil
		},
	}

	err := w.Run(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}

func runMigrate(cmd *cobra.Command, args []string) error {
	markup, err := hueforge.MigrateFile(args[0])
	if err != nil {
		return err
	}

	outPath := flagOut
	if outPath == "" {
		base := strings.TrimSuffix(args[0], ".json")
		outPath = install.DefaultOutputPath(base)
		outPath = strings.TrimSuffix(outPath, ".json") + ".huetheme"
	}
	if outPath == "-" {
		_, err := os.Stdout.Write(markup)
		return err
	}

	if err := install.WriteFileAtomic(outPath, markup); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
	return nil
}

func runExportPalette(cmd *cobra.Command, args []string) error {
	family, err := hueforge.Load(args[0])
	if err != nil {
		return err
	}
	resolved, err := family.Palette.Resolve()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch flagFormat {
	case "table":
		width := 0
		for _, name := range resolved.Names() {
			if len(name) > width {
				width = len(name)
			}
		}
		for _, name := range resolved.Names() {
			fmt.Fprintf(out, "%-*s  %s\n", width, name, resolved[name].Hex())
		}
	case "plain":
		hexes := make([]string, 0, len(resolved))
		for _, name := range resolved.Names() {
			hexes = append(hexes, resolved[name].Hex())
		}
		fmt.Fprintln(out, strings.Join(hexes, " "))
	case "tuples":
		for _, name := range resolved.Names() {
			fmt.Fprintf(out, "(%q, %q)\n", name, resolved[name].Hex())
		}
	default:
		return fmt.Errorf("unknown format %q (valid: table, plain, tuples)", flagFormat)
	}
	return nil
}

func runFmt(cmd *cobra.Command, args []string) error {
	hasErrors := false
	needsFormatting := false

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error reading %s: %v\n", path, err)
			hasErrors = true
			continue
		}

		formatted := format.Source(data)
		if bytes.Equal(formatted, data) {
			continue
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)
		needsFormatting = true

		if !flagCheck {
			if err := os.WriteFile(path, formatted, 0o644); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error writing %s: %v\n", path, err)
				hasErrors = true
			}
		}
	}

	if hasErrors || (flagCheck && needsFormatting) {
		os.Exit(1)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
