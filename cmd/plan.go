package cmd

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/histkit/replan/internal/config"
	"github.com/histkit/replan/internal/git"
	"github.com/histkit/replan/internal/logger"
	"github.com/histkit/replan/internal/notify"
	"github.com/histkit/replan/internal/rewrite"
	"github.com/histkit/replan/internal/ui"
)

var planCmd = &cobra.Command{
	Use:   "plan [upstream]",
	Short: "Open the interactive rewrite plan for the commits above upstream",
	Long: `Loads the linear run of commits between upstream and HEAD into the plan
dialog. The upstream argument defaults to repo.upstream from the config.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().String("repo", "", "repository path (defaults to repo.path or the working dir)")
	planCmd.Flags().String("log-file", "", "append logs to this file instead of discarding them")
}

func runPlan(cmd *cobra.Command, args []string) error {
	logger.SetCommand("plan")
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if repo, _ := cmd.Flags().GetString("repo"); repo != "" {
		cfg.Repo.Path = repo
	}
	upstream := cfg.Repo.Upstream
	if len(args) == 1 {
		upstream = args[0]
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the plan dialog requires a terminal; use 'replan export' for scripted output")
	}

	// The TUI owns the terminal; keep slog off it.
	if logFile, _ := cmd.Flags().GetString("log-file"); logFile != "" {
		if err := logger.Setup(cfg.Verbose || verbose, logFile); err != nil {
			return err
		}
	} else {
		logger.Discard()
	}

	ctx := cmd.Context()
	client := git.NewClient(cfg.Repo.Path)
	if err := client.EnsureRewriteSafe(ctx, upstream); err != nil {
		return err
	}
	commits, err := client.ListCommits(ctx, upstream)
	if err != nil {
		return err
	}

	bus := notify.NewBus()
	events, cancelSub := bus.Subscribe()
	defer cancelSub()

	if cfg.UI.WatchRepo {
		if watcher, err := notify.NewRepoWatcher(cfg.Repo.Path, bus); err == nil {
			watcher.Start()
			defer watcher.Stop()
		} else {
			slog.Debug("repo watcher unavailable", "error", err)
		}
	}

	ctrl := rewrite.NewController(cfg.Repo.Path, upstream, commits, client, bus)
	model := ui.NewDialogModel(ctrl, upstream, cfg)

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}

	dialog, ok := final.(ui.DialogModel)
	if !ok {
		return nil
	}
	if dialog.Succeeded {
		fmt.Printf("Rewrote %d commits onto %s.\n", len(commits), upstream)
		drainNotifications(events)
	}
	return nil
}

// drainNotifications logs whatever the rewrite published. In the desktop
// client these events fan out to every open view; the CLI just reports them.
func drainNotifications(events <-chan notify.Event) {
	for {
		select {
		case ev := <-events:
			slog.Info("repository changed", "kind", ev.Kind, "repo", ev.Repo, "event", ev.ID)
		default:
			return
		}
	}
}
