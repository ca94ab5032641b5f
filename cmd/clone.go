package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-backup/internal/config"
	"github.com/naka-gawa/github-backup/internal/domain"
	"github.com/naka-gawa/github-backup/internal/gateway"
	"github.com/naka-gawa/github-backup/internal/git"
	"github.com/naka-gawa/github-backup/internal/progress"
	"github.com/naka-gawa/github-backup/internal/usecase"
)

var cloneCmd = &cobra.Command{
	Use:   "clone <username|@organization> <target path>",
	Short: "Clones all repositories of a GitHub user or organization",
	Long: `Fetches the full repository list of a GitHub user (or an organization when the
name starts with "@") and clones every repository over SSH into the target path.
Existing working copies are left alone, so the command can be re-run safely.

The token is read from --token, or from GITHUB_TOKEN (a .env file in the working
directory is loaded first).`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runClone,
}

func runClone(cmd *cobra.Command, args []string) error {
	stderr := cmd.ErrOrStderr()
	errLog := log.New(stderr, "", 0)

	configPath, _ := cmd.Flags().GetString("config")
	defaults := config.FileDefaults{}
	if configPath != "" {
		var err error
		defaults, err = config.LoadFile(configPath, errLog)
		if err != nil {
			return err
		}
	}

	tokenFlag, _ := cmd.Flags().GetString("token")
	opts, err := config.New(args[0], args[1], "")
	if err != nil {
		return err
	}
	opts.Verbose, _ = cmd.InheritedFlags().GetBool("verbose")
	opts.OmitUsername, _ = cmd.Flags().GetBool("omit-username")
	opts.IncludeArchived, _ = cmd.Flags().GetBool("include-archived")
	opts.SaveJSON, _ = cmd.Flags().GetBool("save-json")
	opts.PageSize, _ = cmd.Flags().GetInt("page-size")
	opts.GitTimeout, _ = cmd.Flags().GetDuration("git-timeout")
	defaults.Apply(&opts, func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	})

	logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
	if opts.Verbose {
		logger.SetOutput(stderr) // If verbose, log to standard error.
	}

	opts.Token = config.ResolveToken(tokenFlag, os.Getenv, logger)
	if err := opts.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	githubGateway, err := gateway.NewGitHubGateway(opts.Token, opts.HTTPTimeout, logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	runner := git.NewExecRunner(opts.GitTimeout, logger)

	var tracker progress.Tracker = progress.NewConsoleTracker(cmd.OutOrStdout())
	if opts.Verbose {
		tracker = progress.NopTracker{}
	}

	backup := usecase.NewBackup(githubGateway, git.NewCloner(runner, logger), git.NewLinker(runner, logger), tracker, logger, errLog)
	summary, err := backup.Run(ctx, opts)
	if err != nil {
		return describeFatal(err, opts.Verbose)
	}

	fmt.Fprintln(cmd.OutOrStdout(), summary.String())
	return nil
}

// describeFatal shortens a listing failure to its category unless verbose.
func describeFatal(err error, verbose bool) error {
	if verbose || !domain.IsFatal(err) {
		return err
	}
	return fmt.Errorf("%w (run with --verbose for details)", domain.FatalCause(err))
}

func init() {
	rootCmd.AddCommand(cloneCmd)
	cloneCmd.Flags().StringP("token", "t", "", "GitHub token (defaults to $GITHUB_TOKEN)")
	cloneCmd.Flags().Bool("omit-username", false, "Clone into <target path>/<category> instead of <target path>/<username>/<category>")
	cloneCmd.Flags().Bool("include-archived", false, "Also clone archived repositories")
	cloneCmd.Flags().BoolP("save-json", "s", false, "Save the fetched repository list as <target path>/<username>-repositories.json")
	cloneCmd.Flags().Int("page-size", config.DefaultPageSize, "Repositories requested per API page (1-100)")
	cloneCmd.Flags().Duration("git-timeout", config.DefaultGitTimeout, "Maximum duration of a single git command")
	cloneCmd.Flags().StringP("config", "c", "", "Optional JSON file with default option values")
}
