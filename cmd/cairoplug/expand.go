package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"cairoplug/internal/diag"
	"cairoplug/internal/diagfmt"
	"cairoplug/internal/hostbridge"
	"cairoplug/internal/observ"
	"cairoplug/internal/source"
	"cairoplug/internal/syntax"
)

var (
	expandFormat       string
	expandCfg          []string
	expandJobs         int
	expandNoCode       bool
	expandWriteRequest string
	expandTimings      bool
)

func init() {
	expandCmd.Flags().StringVar(&expandFormat, "format", "pretty", "diagnostics format (pretty|short)")
	expandCmd.Flags().StringArrayVar(&expandCfg, "cfg", nil, `active cfg entry, repeatable, e.g. test or 'feature: "x"'`)
	expandCmd.Flags().IntVar(&expandJobs, "jobs", 0, "max parallel expansions (0=auto)")
	expandCmd.Flags().BoolVar(&expandNoCode, "no-code", false, "do not print generated code")
	expandCmd.Flags().StringVar(&expandWriteRequest, "write-request", "", "also write the msgpack request stream to this file (input for serve)")
	expandCmd.Flags().BoolVar(&expandTimings, "timings", false, "print per-phase timings to stderr")
}

var expandCmd = &cobra.Command{
	Use:   "expand <file.toml|file.mp>...",
	Short: "Expand items described in TOML or msgpack request files",
	Long: `expand reads one item per file: a TOML item description (.toml) or a msgpack
host request (.mp), runs the plugin on it and prints the generated code, its mapping
table and the diagnostics.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExpand,
}

func runExpand(cmd *cobra.Command, args []string) error {
	switch expandFormat {
	case "pretty", "short":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or short)", expandFormat)
	}

	env, cleanup, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	flagCfg := make([]syntax.Cfg, 0, len(expandCfg))
	for _, c := range expandCfg {
		flagCfg = append(flagCfg, syntax.ParseCfg(c))
	}

	timer := observ.NewTimer()
	if expandTimings {
		defer timer.WriteSummary(cmd.ErrOrStderr())
	}

	// id файла в FileSet совпадает с индексом входа и с Tree.File запроса
	fs := source.NewFileSet()
	endLoad := timer.Track("load")
	reqs := make([]hostbridge.Request, 0, len(args))
	for i, path := range args {
		file, err := safecast.Conv[uint32](i)
		if err != nil {
			return fmt.Errorf("too many inputs: %w", err)
		}
		req, err := loadRequest(path, source.FileID(file), flagCfg)
		if err != nil {
			return err
		}
		if id := fs.Add(path, []byte(req.Tree.Source)); id != req.Tree.File {
			return fmt.Errorf("%s: file id %d does not match request tree file %d", path, id, req.Tree.File)
		}
		reqs = append(reqs, req)
	}
	endLoad(fmt.Sprintf("%d file(s)", len(reqs)))

	if expandWriteRequest != "" {
		if err := writeRequests(expandWriteRequest, reqs); err != nil {
			return err
		}
	}

	endExpand := timer.Track("expand")
	resps, err := hostbridge.ExpandBatch(cmd.Context(), env.suite, reqs, expandJobs)
	if err != nil {
		return err
	}
	endExpand("")

	out := cmd.OutOrStdout()
	opts := diagfmt.PrettyOpts{Color: env.color, ShowNotes: true}
	var failed, errorsCount int
	endPrint := timer.Track("print")
	for i := range resps {
		f, e := printResponse(out, args[i], &resps[i], fs, opts)
		failed += f
		errorsCount += e
	}
	endPrint("")
	if failed > 0 || errorsCount > 0 {
		return fmt.Errorf("expansion failed: %d failed item(s), %d error(s)", failed, errorsCount)
	}
	return nil
}

// loadRequest turns one input file into a request whose tree is registered as file.
func loadRequest(path string, file source.FileID, extraCfg []syntax.Cfg) (hostbridge.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return hostbridge.Request{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var decl syntax.Decl
		meta, err := toml.Decode(string(data), &decl)
		if err != nil {
			return hostbridge.Request{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		for _, k := range meta.Undecoded() {
			if k.String() != "cfg" {
				return hostbridge.Request{}, fmt.Errorf("%s: unknown key %s", path, k)
			}
		}
		var extra struct {
			Cfg []string `toml:"cfg"`
		}
		if _, err := toml.Decode(string(data), &extra); err != nil {
			return hostbridge.Request{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}

		tree, err := syntax.Build(file, decl)
		if err != nil {
			return hostbridge.Request{}, fmt.Errorf("%s: %w", path, err)
		}
		cfg := append([]syntax.Cfg(nil), extraCfg...)
		for _, c := range extra.Cfg {
			cfg = append(cfg, syntax.ParseCfg(c))
		}
		return hostbridge.NewRequest(uint64(file), tree, syntax.NoNodeID, syntax.NewCfgSet(cfg...)), nil

	case ".mp", ".msgpack":
		req, err := hostbridge.DecodeRequest(data)
		if err != nil {
			return hostbridge.Request{}, fmt.Errorf("%s: %w", path, err)
		}
		req.Tree.File = file
		req.Cfg = syntax.NewCfgSet(append(req.Cfg, extraCfg...)...).Entries()
		return req, nil

	default:
		return hostbridge.Request{}, fmt.Errorf("%s: unsupported input (expected .toml or .mp)", path)
	}
}

func writeRequests(path string, reqs []hostbridge.Request) error {
	var buf bytes.Buffer
	for i := range reqs {
		data, err := hostbridge.EncodeRequest(&reqs[i])
		if err != nil {
			return fmt.Errorf("encode request %d: %w", reqs[i].ID, err)
		}
		buf.Write(data)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// printResponse renders one response and returns the number of failed calls and of
// error diagnostics.
func printResponse(out io.Writer, path string, resp *hostbridge.Response, fs *source.FileSet, opts diagfmt.PrettyOpts) (failed, errs int) {
	fmt.Fprintf(out, "== %s\n", path)
	printDiagnostics(out, resp.Diagnostics, fs, opts)
	errs += countErrors(resp.Diagnostics)
	if resp.Error != "" {
		fmt.Fprintf(out, "error: %s\n", resp.Error)
		return 1, errs
	}
	if len(resp.Results) == 0 {
		fmt.Fprintln(out, "no plugin matched this item")
		return 0, errs
	}

	for _, res := range resp.Results {
		if res.Code != nil {
			if !expandNoCode {
				fmt.Fprintf(out, "-- generated %s\n", res.Code.Name)
				fmt.Fprint(out, res.Code.Content)
				if !strings.HasSuffix(res.Code.Content, "\n") {
					fmt.Fprintln(out)
				}
			}
			fmt.Fprintln(out, "-- mappings")
			diagfmt.Mappings(out, res.Code.Content, res.Code.Mappings, fs, opts)
		}
		if len(res.Diagnostics) > 0 {
			fmt.Fprintln(out, "-- diagnostics")
			printDiagnostics(out, res.Diagnostics, fs, opts)
			errs += countErrors(res.Diagnostics)
		}
		if res.Error != "" {
			fmt.Fprintf(out, "error: %s\n", res.Error)
			failed++
		}
	}
	return failed, errs
}

func printDiagnostics(out io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts diagfmt.PrettyOpts) {
	if expandFormat == "short" {
		diagfmt.Short(out, diags, fs)
		return
	}
	diagfmt.Pretty(out, diags, fs, opts)
}

func countErrors(diags []diag.Diagnostic) int {
	n := 0
	for i := range diags {
		if diags[i].Severity >= diag.SevError {
			n++
		}
	}
	return n
}
