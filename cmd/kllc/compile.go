package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava12/kllc/compile"
	"github.com/ava12/kllc/diag"
	"github.com/ava12/kllc/emit"
	"github.com/ava12/kllc/klog"
	"github.com/ava12/kllc"
)

var (
	genericFiles []string
	configFiles  []string
	baseFiles    []string
	defaultFiles []string
	partialFiles []string
	mergeFiles   []string

	format   string
	outPath  string
	logLevel string
	console  bool
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile role-grouped KLL sources and emit JSON or canonical KLL",
	RunE:  runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringArrayVar(&genericFiles, "generic", nil, "Generic-role source file (repeatable)")
	compileCmd.Flags().StringArrayVar(&configFiles, "config", nil, "Configuration-role source file (repeatable)")
	compileCmd.Flags().StringArrayVar(&baseFiles, "base", nil, "BaseMap-role source file (repeatable)")
	compileCmd.Flags().StringArrayVar(&defaultFiles, "default", nil, "DefaultMap-role source file (repeatable)")
	compileCmd.Flags().StringArrayVar(&partialFiles, "partial", nil, "PartialMap source file, as N:path (repeatable)")
	compileCmd.Flags().StringArrayVar(&mergeFiles, "merge", nil, "Merge-role source file (repeatable)")

	compileCmd.Flags().StringVar(&format, "format", "kll", "Output format: kll or json")
	compileCmd.Flags().StringVar(&outPath, "out", "", "Output file path (default: stdout)")
	compileCmd.Flags().StringVar(&logLevel, "log-level", "info", "klog level: debug, info, warn, error, disabled")
	compileCmd.Flags().BoolVar(&console, "console", false, "Render logs as console text instead of JSON")
}

func runCompile(cmd *cobra.Command, args []string) error {
	partials, err := groupPartials(partialFiles)
	if err != nil {
		return err
	}

	req := &kllc.CompileRequest{
		GenericFiles:  genericFiles,
		ConfigFiles:   configFiles,
		BaseFiles:     baseFiles,
		DefaultFiles:  defaultFiles,
		PartialGroups: partials,
		MergeFiles:    mergeFiles,
	}

	logger := klog.New(klog.Options{Level: logLevel, Console: console, Out: os.Stderr})

	result, errs, err := compile.Compile(context.Background(), req, compile.Options{Logger: &logger})
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		hard, warnings := diag.Split(errs)
		diag.Fprint(os.Stderr, warnings, result.Sources)
		diag.Fprint(os.Stderr, hard, result.Sources)
		return fmt.Errorf("compilation failed with %d error(s)", len(hard))
	}
	if len(result.Warnings) > 0 {
		diag.Fprint(os.Stderr, result.Warnings, result.Sources)
	}

	out, err := renderOutput(result)
	if err != nil {
		return err
	}

	if outPath == "" {
		_, err = os.Stdout.WriteString(out)
		return err
	}
	return os.WriteFile(outPath, []byte(out), 0o644)
}

func renderOutput(result *compile.Result) (string, error) {
	switch strings.ToLower(format) {
	case "json":
		b, err := emit.JSON(result.Facade)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case "kll", "":
		return emit.KLL(result.Facade)
	default:
		return "", fmt.Errorf("unknown --format %q (want kll or json)", format)
	}
}

// groupPartials turns a flat "N:path" flag list into PartialGroups'
// by-index slice-of-slices, in ascending index order.
func groupPartials(flags []string) ([][]string, error) {
	byIndex := map[int][]string{}
	maxIndex := -1
	for _, f := range flags {
		idxStr, path, ok := strings.Cut(f, ":")
		if !ok {
			return nil, fmt.Errorf("--partial value %q must be N:path", f)
		}
		idx, err := strconv.Atoi(idxStr)
		if err != nil {
			return nil, fmt.Errorf("--partial value %q has a non-numeric index: %w", f, err)
		}
		byIndex[idx] = append(byIndex[idx], path)
		if idx > maxIndex {
			maxIndex = idx
		}
	}

	if maxIndex < 0 {
		return nil, nil
	}
	groups := make([][]string, maxIndex+1)
	for idx, paths := range byIndex {
		groups[idx] = paths
	}
	return groups, nil
}
