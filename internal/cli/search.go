package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/driveport/driveport/internal/events"
	"github.com/driveport/driveport/internal/search"
)

// newSearchCmd creates the 'search' command.
func newSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search your files and folders by name",
		Long: `Search file and folder names with typo tolerance. Results are ranked
best-match first. When nothing matches well enough, near-miss names are
listed as "did you mean" suggestions.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query := strings.Join(args, " ")

			client, cfg, user, err := newClient(ctx)
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = cfg.Search.Limit
			}

			bus := events.NewEventBus(0)
			defer bus.Close()

			coordinator := search.NewCoordinator(client, *user, bus, logger,
				search.WithLimit(limit))
			result, err := coordinator.SearchNow(ctx, query)
			if err != nil {
				return err
			}

			if len(result.Hits) == 0 {
				fmt.Printf("No matches for %q.\n", query)
				if len(result.Suggestions) > 0 {
					fmt.Printf("Did you mean: %s\n", strings.Join(result.Suggestions, ", "))
				}
				return nil
			}

			for _, hit := range result.Hits {
				switch hit.Kind {
				case search.KindFile:
					fmt.Printf("%-6s  %-40s  %8d  %s\n", "file", hit.Name, hit.File.Size, hit.File.ID)
				case search.KindFolder:
					fmt.Printf("%-6s  %-40s  %8s  %s\n", "folder", hit.Name, "-", hit.Folder.ID)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum hits to return (default from config)")
	return cmd
}
