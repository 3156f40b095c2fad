package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"

	"github.com/histkit/replan/internal/config"
	"github.com/histkit/replan/internal/git"
	"github.com/histkit/replan/internal/logger"
	"github.com/histkit/replan/internal/plan"
	"github.com/histkit/replan/models"
)

var exportCmd = &cobra.Command{
	Use:   "export [upstream]",
	Short: "Print the default rewrite plan without executing it",
	Long: `Builds the plan the dialog would open with (every commit picked, optionally
autosquashed) and prints it as executor instruction text, yaml, or json.
Useful for debugging and for piping into other tooling.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("format", "todo", "output format: todo, yaml, or json")
	exportCmd.Flags().Bool("autosquash", false, "apply the fixup!/squash! matcher before exporting")
}

func runExport(cmd *cobra.Command, args []string) error {
	logger.SetCommand("export")
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	upstream := cfg.Repo.Upstream
	if len(args) == 1 {
		upstream = args[0]
	}

	ctx := cmd.Context()
	client := git.NewClient(cfg.Repo.Path)
	if !client.IsRepository(ctx) {
		return git.ErrNotGitRepository
	}
	commits, err := client.ListCommits(ctx, upstream)
	if err != nil {
		return err
	}

	p := plan.New(commits)
	if autosquash, _ := cmd.Flags().GetBool("autosquash"); autosquash {
		p = p.ApplyAutosquash()
	}

	format, _ := cmd.Flags().GetString("format")
	out, err := renderExport(p, format)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// planDump is the structured export payload.
type planDump struct {
	Entries []models.PlanEntry `json:"entries" yaml:"entries"`
	Stats   models.PlanStats   `json:"stats" yaml:"stats"`
}

func renderExport(p plan.Plan, format string) (string, error) {
	switch format {
	case "todo":
		return p.Serialize(), nil
	case "yaml":
		dump := planDump{Entries: p.Entries(), Stats: p.Stats()}
		out, err := yaml.Marshal(dump)
		if err != nil {
			return "", fmt.Errorf("marshal plan: %w", err)
		}
		return string(out), nil
	case "json":
		dump := planDump{Entries: p.Entries(), Stats: p.Stats()}
		out, err := json.MarshalIndent(dump, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal plan: %w", err)
		}
		return string(out) + "\n", nil
	default:
		return "", fmt.Errorf("unknown format %q (want todo, yaml, or json)", format)
	}
}
