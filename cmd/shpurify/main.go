// Command shpurify is the thin CLI home for the purify/lint core: build,
// check, lint, fmt and serve subcommands wiring together the internal
// packages. None of the pipeline's invariants live here — this is plumbing,
// in the same spirit as the teacher's cmd/taskguild/main.go kingpin wiring.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"github.com/shpurify/shpurify/internal/batch"
	"github.com/shpurify/shpurify/internal/devcontainer"
	"github.com/shpurify/shpurify/internal/diag"
	"github.com/shpurify/shpurify/internal/emitter"
	"github.com/shpurify/shpurify/internal/httpserve"
	"github.com/shpurify/shpurify/internal/lint"
	"github.com/shpurify/shpurify/internal/lint/rules"
	"github.com/shpurify/shpurify/internal/makefile"
	"github.com/shpurify/shpurify/internal/obslog"
	"github.com/shpurify/shpurify/internal/parser"
	"github.com/shpurify/shpurify/internal/pipeline/cerr"
	"github.com/shpurify/shpurify/internal/pipeline/config"
	"github.com/shpurify/shpurify/internal/purifier"
	"github.com/shpurify/shpurify/internal/report"
	"github.com/shpurify/shpurify/internal/shellfmt"
	"github.com/shpurify/shpurify/internal/watch"
)

var (
	app = kingpin.New("shpurify", "bash-to-POSIX purifier and linter")

	buildCmd    = app.Command("build", "purify a script and emit normalized POSIX sh")
	buildInput  = buildCmd.Arg("input", "input script path").Required().String()
	buildOutput = buildCmd.Arg("output", "output path ('-' for stdout)").Default("-").String()
	buildDiff   = buildCmd.Flag("diff", "print a unified diff instead of writing output").Bool()

	checkCmd    = app.Command("check", "parse and purify without writing output; non-zero exit on issues")
	checkInputs = checkCmd.Arg("input", "input script path(s)").Required().Strings()

	lintCmd    = app.Command("lint", "run the lint rule catalog over a script")
	lintInputs = lintCmd.Arg("input", "input script path(s)").Required().Strings()

	fmtCmd      = app.Command("fmt", "best-effort reformat of scripts our strict parser rejects")
	fmtInput    = fmtCmd.Arg("input", "input script path").Required().String()
	fmtWatchRun = fmtCmd.Flag("watch", "re-run on file change").Bool()

	makeCmd   = app.Command("make", "parse and re-emit a Makefile")
	makeInput = makeCmd.Arg("input", "Makefile path").Required().String()

	devcontainerCmd   = app.Command("devcontainer", "validate a devcontainer.json file")
	devcontainerInput = devcontainerCmd.Arg("input", "devcontainer.json path").Required().String()

	serveCmd  = app.Command("serve", "run the HTTP daemon for editor integrations")
	serveHost = serveCmd.Flag("host", "bind host").Default("127.0.0.1").String()
	servePort = serveCmd.Flag("port", "bind port").Default("8787").String()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cerr.Internal.ExitCode())
	}
	logger := slog.New(obslog.NewTextHandler(os.Stderr, obslog.WithColor(env.LogColor), obslog.WithLevel(env.SlogLevel())))
	slog.SetDefault(logger)

	ruleConfig, err := config.LoadRuleConfig(env.RuleConfigPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cerr.Internal.ExitCode())
	}

	var exitErr error
	switch command {
	case buildCmd.FullCommand():
		exitErr = runBuild(*buildInput, *buildOutput, *buildDiff)
	case checkCmd.FullCommand():
		exitErr = runCheck(*checkInputs, ruleConfig, env.MaxParallel)
	case lintCmd.FullCommand():
		exitErr = runLint(*lintInputs, ruleConfig, env.MaxParallel)
	case fmtCmd.FullCommand():
		exitErr = runFmt(*fmtInput, *fmtWatchRun)
	case makeCmd.FullCommand():
		exitErr = runMake(*makeInput)
	case devcontainerCmd.FullCommand():
		exitErr = runDevcontainer(*devcontainerInput)
	case serveCmd.FullCommand():
		exitErr = runServe(*serveHost, *servePort)
	}

	if exitErr != nil {
		fmt.Fprintln(os.Stderr, exitErr)
	}
	os.Exit(cerr.ExitCode(exitErr))
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", cerr.New(cerr.IO, "read input", err)
	}
	return string(data), nil
}

func readFiles(paths []string) ([]batch.File, error) {
	files := make([]batch.File, len(paths))
	for i, p := range paths {
		source, err := readSource(p)
		if err != nil {
			return nil, err
		}
		files[i] = batch.File{Path: p, Source: source}
	}
	return files, nil
}

func runBuild(input, output string, diff bool) error {
	source, err := readSource(input)
	if err != nil {
		return err
	}
	tree, err := parser.Parse(source)
	if err != nil {
		return cerr.New(cerr.Validation, "parse", err)
	}
	purified, _, err := purifier.New(purifier.DefaultPurificationOptions()).Purify(tree)
	if err != nil {
		return cerr.New(cerr.Validation, "purify", err)
	}
	emitted := emitter.Emit(purified)

	if diff {
		d, err := report.Diff(input, source, emitted)
		if err != nil {
			return cerr.New(cerr.Internal, "diff", err)
		}
		fmt.Println(d)
		return nil
	}
	if output == "-" {
		fmt.Print(emitted)
		return nil
	}
	if err := os.WriteFile(output, []byte(emitted), 0o644); err != nil {
		return cerr.New(cerr.IO, "write output", err)
	}
	return nil
}

// runCheck parses, purifies (validation only) and lints every input,
// running the batch in parallel across files the same way a caller
// processing many scripts at once would, per one run-ID so the resulting
// log lines can be correlated.
func runCheck(inputs []string, ruleConfig config.RuleConfig, maxParallel int) error {
	runID := report.NewRunID()
	slog.Info("check run", "run_id", runID, "files", len(inputs))

	files, err := readFiles(inputs)
	if err != nil {
		return err
	}

	purifyResults := batch.RunPurify(files, purifier.DefaultPurificationOptions(), maxParallel)
	enabledRules := lint.FilterRules(rules.All(), ruleConfig.IsEnabled)
	lintResults := batch.RunLint(files, enabledRules, maxParallel)

	minSeverity := diag.Severity(ruleConfig.MinSeverity)
	var failed bool
	var allDiags []diag.Diagnostic
	for i, f := range files {
		if pr := purifyResults[i]; pr.Err != nil {
			fmt.Fprintln(os.Stderr, pr.Err)
			failed = true
			continue
		}
		lr := lintResults[i]
		if lr.Err != nil {
			fmt.Fprintln(os.Stderr, lr.Err)
			failed = true
			continue
		}
		report.PrintDiagnostics(f.Path, lr.Diags)
		allDiags = append(allDiags, lr.Diags...)
		if len(diag.FilterSeverity(lr.Diags, minSeverity)) > 0 {
			failed = true
		}
	}
	fmt.Fprintln(os.Stderr, report.SummaryLine(allDiags))

	if failed {
		return cerr.New(cerr.Validation, "check found errors", nil)
	}
	return nil
}

// runLint lints every input, filtered through ruleConfig's per-code/
// per-family enablement, in parallel across files via internal/batch.
func runLint(inputs []string, ruleConfig config.RuleConfig, maxParallel int) error {
	runID := report.NewRunID()
	slog.Info("lint run", "run_id", runID, "files", len(inputs))

	files, err := readFiles(inputs)
	if err != nil {
		return err
	}

	enabledRules := lint.FilterRules(rules.All(), ruleConfig.IsEnabled)
	results := batch.RunLint(files, enabledRules, maxParallel)

	minSeverity := diag.Severity(ruleConfig.MinSeverity)
	var failed bool
	var allDiags []diag.Diagnostic
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintln(os.Stderr, r.Err)
			failed = true
			continue
		}
		report.PrintDiagnostics(r.Path, r.Diags)
		allDiags = append(allDiags, r.Diags...)
		if len(diag.FilterSeverity(r.Diags, minSeverity)) > 0 {
			failed = true
		}
	}
	fmt.Fprintln(os.Stderr, report.SummaryLine(allDiags))

	if failed {
		return cerr.New(cerr.Validation, "lint found errors", nil)
	}
	return nil
}

func runFmt(input string, watchMode bool) error {
	format := func() error {
		source, err := readSource(input)
		if err != nil {
			return err
		}
		formatted, err := shellfmt.Format(source)
		if err != nil {
			return cerr.New(cerr.Validation, "format", err)
		}
		fmt.Print(formatted)
		return nil
	}
	if !watchMode {
		return format()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return watch.Run(ctx, input, func(path string) {
		if err := format(); err != nil {
			slog.Error("fmt on change failed", "path", path, "error", err)
		}
	})
}

func runMake(input string) error {
	source, err := readSource(input)
	if err != nil {
		return err
	}
	items, err := makefile.Parse(source)
	if err != nil {
		return cerr.New(cerr.Validation, "parse makefile", err)
	}
	fmt.Print(makefile.Generate(items, makefile.GenOptions{}))
	return nil
}

func runDevcontainer(input string) error {
	runID := report.NewRunID()
	slog.Info("devcontainer run", "run_id", runID)

	source, err := readSource(input)
	if err != nil {
		return err
	}
	diags, err := devcontainer.ValidateSource(source)
	if err != nil {
		return cerr.New(cerr.Validation, "parse devcontainer.json", err)
	}
	report.PrintDiagnostics(input, diags)
	fmt.Fprintln(os.Stderr, report.SummaryLine(diags))
	if diag.HighestSeverity(diags) == diag.Error {
		return cerr.New(cerr.Validation, "devcontainer validation found errors", nil)
	}
	return nil
}

func runServe(host, port string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	srv := httpserve.NewServer(host, port)
	if err := srv.ListenAndServe(ctx); err != nil {
		return cerr.New(cerr.Internal, "serve", err)
	}
	return nil
}
