package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	sitegen "github.com/goliatone/go-sitegen"
)

// buildExecutor and cleanExecutor keep the CLI testable without running real
// builds; the module's command handlers satisfy them.
type buildExecutor interface {
	Execute(ctx context.Context, msg sitegen.BuildSiteCommand) error
}

type cleanExecutor interface {
	Execute(ctx context.Context, msg sitegen.CleanSiteCommand) error
}

type handlerSet struct {
	build buildExecutor
	clean cleanExecutor
}

type moduleOptions struct {
	configPath string
	verbose    bool
	drafts     bool
}

type moduleResources struct {
	handlers handlerSet
}

// moduleBuilder constructs the runtime module; tests swap it for stubs.
var moduleBuilder = buildModule

func buildModule(opts moduleOptions) (*moduleResources, error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.verbose {
		cfg.Features.Logger = true
		cfg.Logging.Level = "debug"
	}
	if opts.drafts {
		cfg.Content.Drafts = true
	}

	module, err := sitegen.New(cfg)
	if err != nil {
		return nil, err
	}

	return &moduleResources{
		handlers: handlerSet{
			build: module.BuildHandler(),
			clean: module.CleanHandler(),
		},
	}, nil
}

type cliOptions struct {
	configPath string
	verbose    bool

	dryRun    bool
	workers   int
	outputDir string
	drafts    bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "sitegen",
		Short: "Markdown driven static site build engine",
		Long: `sitegen compiles a markdown content tree into a publishable site.

Items are matched against rule patterns, compiled through each rule's step
chain, and written to routed output paths. Tag pages, feeds, the sitemap,
and theme assets are synthesized from the compiled products.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to the site configuration file (default sitegen.yml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	build := &cobra.Command{
		Use:   "build",
		Short: "Compile the site into the output directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, opts)
		},
	}
	build.Flags().BoolVar(&opts.dryRun, "dry-run", false, "compile without writing any output")
	build.Flags().IntVar(&opts.workers, "workers", 0, "override the configured worker count")
	build.Flags().StringVarP(&opts.outputDir, "output", "o", "", "override the configured output directory")
	build.Flags().BoolVar(&opts.drafts, "drafts", false, "include draft items")

	clean := &cobra.Command{
		Use:   "clean",
		Short: "Remove the generated output tree",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClean(cmd, opts)
		},
	}

	root.AddCommand(build)
	root.AddCommand(clean)
	return root
}

func runBuild(cmd *cobra.Command, opts *cliOptions) error {
	resources, err := moduleBuilder(moduleOptions{
		configPath: opts.configPath,
		verbose:    opts.verbose,
		drafts:     opts.drafts,
	})
	if err != nil {
		return err
	}
	if resources == nil || resources.handlers.build == nil {
		return fmt.Errorf("build handler not configured")
	}

	var report *sitegen.BuildResult
	msg := sitegen.BuildSiteCommand{
		DryRun:    opts.dryRun,
		Workers:   opts.workers,
		OutputDir: opts.outputDir,
		ResultCallback: func(env sitegen.ResultEnvelope) {
			report = env.Result
		},
	}

	execErr := resources.handlers.build.Execute(cmd.Context(), msg)

	if report != nil {
		fmt.Fprintf(cmd.OutOrStdout(),
			"build complete: %d products, %d tag pages, %d feed entries, %d assets in %s\n",
			report.ProductsBuilt, report.TagPagesBuilt, report.FeedEntries,
			report.AssetsBuilt, report.Duration.Round(time.Millisecond))
		if report.DryRun {
			fmt.Fprintln(cmd.OutOrStdout(), "dry run: no files were written")
		}
	}

	// Every collected error is listed before the command fails, so one run
	// reports all broken items instead of the first.
	if report != nil && len(report.Errors) > 0 {
		out := cmd.ErrOrStderr()
		fmt.Fprintf(out, "build finished with %d error(s):\n", len(report.Errors))
		for i, buildErr := range report.Errors {
			fmt.Fprintf(out, "  %d. %v\n", i+1, buildErr)
		}
		return fmt.Errorf("build failed: %d error(s)", len(report.Errors))
	}
	return execErr
}

func runClean(cmd *cobra.Command, opts *cliOptions) error {
	resources, err := moduleBuilder(moduleOptions{
		configPath: opts.configPath,
		verbose:    opts.verbose,
	})
	if err != nil {
		return err
	}
	if resources == nil || resources.handlers.clean == nil {
		return fmt.Errorf("clean handler not configured")
	}

	if err := resources.handlers.clean.Execute(cmd.Context(), sitegen.CleanSiteCommand{}); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "output directory removed")
	return nil
}

func runWithOutput(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if stdout != nil {
		cmd.SetOut(stdout)
	}
	if stderr != nil {
		cmd.SetErr(stderr)
	}
	return cmd.ExecuteContext(ctx)
}

func run(ctx context.Context, args []string) error {
	return runWithOutput(ctx, args, nil, nil)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
