// Package cli wires configuration, input, the GitHub client and the batch
// engine into the issueseed command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnqtcg/issueseed/internal/batch"
	"github.com/johnqtcg/issueseed/internal/config"
	"github.com/johnqtcg/issueseed/internal/converter"
	gh "github.com/johnqtcg/issueseed/internal/github"
	"github.com/johnqtcg/issueseed/internal/input"
)

// Runner executes the CLI application flow.
type Runner interface {
	Run(ctx context.Context, args []string) int
}

// ClientFactory creates GitHub clients from runtime config.
type ClientFactory interface {
	New(cfg config.Config) (gh.Client, error)
}

// AppDeps defines dependencies for CLI app construction.
type AppDeps struct {
	Loader        config.Loader
	InputLoader   input.Loader
	ClientFactory ClientFactory
	Renderer      converter.Renderer
	ReportWriter  ReportWriter
	Stdin         io.Reader
	Stdout        io.Writer
	Stderr        io.Writer
	Now           func() time.Time
	Sleep         batch.SleepFunc
	// SearchDirs replaces the default settings and issues file lookup directories.
	SearchDirs []string
}

// App orchestrates the upload and rate-limit commands.
type App struct {
	loader        config.Loader
	inputLoader   input.Loader
	clientFactory ClientFactory
	renderer      converter.Renderer
	reportWriter  ReportWriter
	stdin         io.Reader
	stdout        io.Writer
	stderr        io.Writer
	now           func() time.Time
	sleep         batch.SleepFunc
	searchDirs    []string
}

// NewApp creates a CLI runner with injected dependencies.
func NewApp(deps AppDeps) Runner {
	app := &App{
		loader:        deps.Loader,
		inputLoader:   deps.InputLoader,
		clientFactory: deps.ClientFactory,
		renderer:      deps.Renderer,
		reportWriter:  deps.ReportWriter,
		stdin:         deps.Stdin,
		stdout:        deps.Stdout,
		stderr:        deps.Stderr,
		now:           deps.Now,
		sleep:         deps.Sleep,
		searchDirs:    deps.SearchDirs,
	}
	app.setDefaults()
	return app
}

func (a *App) setDefaults() {
	if a.loader == nil {
		a.loader = config.NewLoader()
	}
	if a.inputLoader == nil {
		a.inputLoader = input.NewFileLoader()
	}
	if a.clientFactory == nil {
		a.clientFactory = defaultClientFactory{}
	}
	if a.renderer == nil {
		a.renderer = converter.NewRenderer()
	}
	if a.reportWriter == nil {
		a.reportWriter = NewReportWriter()
	}
	if a.stdin == nil {
		a.stdin = os.Stdin
	}
	if a.stdout == nil {
		a.stdout = os.Stdout
	}
	if a.stderr == nil {
		a.stderr = os.Stderr
	}
	if a.now == nil {
		a.now = time.Now
	}
}

// Run executes the CLI workflow and returns an exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	exit := ExitOK
	root := a.newRootCommand(&exit)
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		writeErrorLine(a.stderr, err)
		return ResolveExitCode(err, nil)
	}
	return exit
}

func (a *App) newRootCommand(exit *int) *cobra.Command {
	var opts seedOptions
	var shared sharedOptions

	root := &cobra.Command{
		Use:   "issueseed [issues-file]",
		Short: "Create GitHub issues and comments from a JSON file",
		Long: `issueseed reads a JSON array of issues and creates them, with their
comments, in one GitHub repository. Calls are paced and the rate-limit
budget is reported before and after the run.

Settings are read from appsettings.json (or .yaml, .yml, .toml) found next to
the executable, in the working directory or one of its parents. Flags override
the GITHUB_TOKEN environment variable, which overrides the settings file.`,
		Args:          maxPositional(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			*exit = a.runSeed(cmd, shared, opts, args)
			return nil
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return config.NewValidationError("flags", err.Error())
	})

	shared.register(root)

	flags := root.Flags()
	flags.IntVar(&opts.delayMs, flagDelay, int(config.DefaultAPICallDelay.Milliseconds()), "delay between issues in milliseconds")
	flags.IntVar(&opts.commentDelayMs, flagCommentDelay, int(config.DefaultCommentDelay.Milliseconds()), "delay between comments of one issue in milliseconds")
	flags.BoolVarP(&opts.yes, "yes", "y", false, "skip the confirmation prompt")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the requests that would be sent and exit")
	flags.StringVar(&opts.reportPath, "report", "", "write a markdown run report to this file or directory")
	flags.BoolVar(&opts.force, "force", false, "overwrite an existing report file")

	root.AddCommand(a.newRateLimitCommand(exit, &shared))
	return root
}

func (a *App) newRateLimitCommand(exit *int, shared *sharedOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rate-limit",
		Short: "Print the current API rate-limit budget",
		Args:  maxPositional(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			*exit = a.runRateLimit(cmd, *shared)
			return nil
		},
	}
}

func (a *App) runSeed(cmd *cobra.Command, shared sharedOptions, opts seedOptions, args []string) int {
	ctx := cmd.Context()

	overrides := shared.overrides(cmd.Flags())
	opts.applyOverrides(cmd.Flags(), &overrides)
	if len(args) == 1 {
		overrides.IssuesPath = &args[0]
	}

	cfg, err := a.loadConfig(shared.configPath, overrides)
	if err != nil {
		return a.fail(err, nil)
	}
	if !opts.dryRun {
		if err := cfg.ValidateCredentials(); err != nil {
			code := a.fail(config.WrapError("validate settings", err), nil)
			if errors.Is(err, config.ErrPlaceholder) {
				writePlaceholderHint(a.stderr, cfg.SourcePath)
			}
			return code
		}
	}

	logger := newLogger(a.stderr, cfg.LogLevel, cfg.ShowDebugInfo)
	logger.Debug("configuration loaded", "settings_file", cfg.SourcePath, "issues_file", cfg.IssuesPath, "repo", cfg.Repo().String())

	issues, err := a.inputLoader.Load(cfg.IssuesPath)
	if err != nil {
		return a.fail(fmt.Errorf("load issues: %w", err), nil)
	}

	if opts.dryRun {
		if err := writeDryRun(a.stdout, issues); err != nil {
			return a.fail(err, nil)
		}
		return ExitOK
	}

	var reportPath string
	if opts.reportPath != "" {
		reportPath, err = a.reportWriter.Prepare(opts.reportPath, opts.force, cfg.Repo(), a.now())
		if err != nil {
			return a.fail(fmt.Errorf("prepare report: %w", err), nil)
		}
	}

	client, err := a.clientFactory.New(cfg)
	if err != nil {
		return a.fail(fmt.Errorf("build github client: %w", err), nil)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			logger.Warn("close github client", "error", closeErr)
		}
	}()

	var budget *gh.RateLimitSnapshot
	if snapshot, ok := client.Probe(context.WithoutCancel(ctx)); ok {
		budget = &snapshot
	}
	writePlan(a.stdout, cfg, len(issues), budget, a.now())

	if !opts.yes {
		question := fmt.Sprintf("Create %d issues in %s?", len(issues), cfg.Repo().String())
		ok, err := NewConfirmer(a.stdin, a.stdout).Confirm(question)
		if err != nil {
			return a.fail(fmt.Errorf("confirm: %w", err), nil)
		}
		if !ok {
			_, _ = fmt.Fprintln(a.stdout, "Aborted, no issues were created.")
			return ExitOK
		}
	}

	engine, err := batch.NewEngine(batch.Deps{
		API:      client,
		Prober:   client,
		Reporter: newConsoleReporter(a.stdout, a.now),
		Logger:   logger,
		Sleep:    a.sleep,
		Now:      a.now,
	}, batch.Options{
		Repo:           cfg.Repo(),
		ItemDelay:      cfg.APICallDelay,
		CommentDelay:   cfg.CommentDelay,
		ShowRateLimits: cfg.ShowDebugInfo,
	})
	if err != nil {
		return a.fail(fmt.Errorf("build batch engine: %w", err), nil)
	}

	outcome := engine.Run(ctx, issues)

	var runErr error
	if err := writeSummary(a.stdout, cfg.Repo(), outcome, a.now()); err != nil {
		runErr = err
	}
	if reportPath != "" {
		if err := a.writeReport(context.WithoutCancel(ctx), cfg, reportPath, opts.force, outcome); err != nil {
			runErr = err
		} else {
			_, _ = fmt.Fprintf(a.stdout, "Report written to %s\n", reportPath)
		}
	}

	if runErr != nil {
		writeErrorLine(a.stderr, runErr)
	}
	return ResolveExitCode(runErr, &outcome)
}

func (a *App) runRateLimit(cmd *cobra.Command, shared sharedOptions) int {
	cfg, err := a.loadConfig(shared.configPath, shared.overrides(cmd.Flags()))
	if err != nil {
		return a.fail(err, nil)
	}
	if err := cfg.ValidateRepository(); err != nil {
		return a.fail(config.WrapError("validate settings", err), nil)
	}

	client, err := a.clientFactory.New(cfg)
	if err != nil {
		return a.fail(fmt.Errorf("build github client: %w", err), nil)
	}
	defer func() { _ = client.Close() }()

	snapshot, ok := client.Probe(cmd.Context())
	if !ok {
		return a.fail(fmt.Errorf("rate limit information unavailable from %s", cfg.APIBaseURL), nil)
	}
	_, _ = fmt.Fprintf(a.stdout, "Rate limit: %s\n", describeSnapshot(&snapshot, a.now()))
	if snapshot.Remaining < lowRemainingThreshold {
		_, _ = fmt.Fprintln(a.stdout, newPalette(a.stdout).warn.Render(fmt.Sprintf("WARNING: only %d API calls remaining", snapshot.Remaining)))
	}
	return ExitOK
}

func (a *App) loadConfig(configPath string, overrides config.Overrides) (config.Config, error) {
	cfg, err := a.loader.Load(config.LoadOptions{
		ConfigPath: configPath,
		Overrides:  overrides,
		SearchDirs: a.searchDirs,
	})
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, config.WrapError("validate settings", err)
	}
	return cfg, nil
}

func (a *App) writeReport(ctx context.Context, cfg config.Config, path string, force bool, outcome batch.Outcome) error {
	markdown, err := a.renderer.Render(ctx, converter.Report{
		Repo:        cfg.Repo(),
		GeneratedAt: a.now(),
		IssuesFile:  cfg.IssuesPath,
		Outcome:     outcome,
	}, converter.RenderOptions{IncludeComments: true})
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if err := a.reportWriter.Write(path, force, markdown); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func (a *App) fail(err error, outcome *batch.Outcome) int {
	writeErrorLine(a.stderr, err)
	return ResolveExitCode(err, outcome)
}

func writePlan(w io.Writer, cfg config.Config, count int, budget *gh.RateLimitSnapshot, now time.Time) {
	_, _ = fmt.Fprintf(w, "Repository:  %s\n", cfg.Repo().String())
	_, _ = fmt.Fprintf(w, "Issues file: %s (%d issues)\n", cfg.IssuesPath, count)
	_, _ = fmt.Fprintf(w, "Pacing:      %s between issues, %s between comments\n", cfg.APICallDelay, cfg.CommentDelay)
	_, _ = fmt.Fprintf(w, "Rate limit:  %s\n", describeSnapshot(budget, now))
	if budget != nil && budget.Remaining < lowRemainingThreshold {
		_, _ = fmt.Fprintln(w, newPalette(w).warn.Render(fmt.Sprintf("WARNING: only %d API calls remaining", budget.Remaining)))
	}
}

func writePlaceholderHint(w io.Writer, source string) {
	if source == "" {
		source = "the settings file"
	}
	_, _ = fmt.Fprintf(w, "hint: replace the sample values in %s or pass --%s and --%s\n", source, flagToken, flagRepo)
}

func writeErrorLine(w io.Writer, err error) {
	if _, writeErr := fmt.Fprintf(w, "error: %v\n", err); writeErr != nil {
		return
	}
}

func maxPositional(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) > n {
			return config.NewValidationError("arguments", fmt.Sprintf("accepts at most %d positional argument(s), received %d", n, len(args)))
		}
		return nil
	}
}

type defaultClientFactory struct{}

func (defaultClientFactory) New(cfg config.Config) (gh.Client, error) {
	client, err := gh.NewClient(cfg.ClientConfig())
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}
