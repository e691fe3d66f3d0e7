package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/driveport/driveport/internal/api"
	"github.com/driveport/driveport/internal/constants"
)

// newLsCmd creates the 'ls' command.
func newLsCmd() *cobra.Command {
	var (
		fileType string
		folderID string
		rootOnly bool
		nameLike string
		sortBy   string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List your files",
		Long: `List files you own or that were shared with you, with optional
filtering by type, folder, and name, and sorting by any document field.

Sort takes a field and direction joined by a dash, like the web UI's sort
picker: $createdAt-desc, name-asc, size-desc.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, _, user, err := newClient(ctx)
			if err != nil {
				return err
			}

			queries := []api.Query{
				api.Or(
					api.Equal("owner", user.ID),
					api.Contains("users", user.Email),
				),
			}

			if fileType != "" {
				queries = append(queries, api.Equal("type", fileType))
			}
			if rootOnly {
				queries = append(queries, api.IsNull("folderId"))
			} else if folderID != "" {
				queries = append(queries, api.Equal("folderId", folderID))
			}
			if nameLike != "" {
				queries = append(queries, api.Contains("name", nameLike))
			}

			if sortBy != "" {
				field, direction, ok := strings.Cut(sortBy, "-")
				if !ok || (direction != "asc" && direction != "desc") {
					return fmt.Errorf("invalid sort %q, want field-asc or field-desc", sortBy)
				}
				if direction == "asc" {
					queries = append(queries, api.OrderAsc(field))
				} else {
					queries = append(queries, api.OrderDesc(field))
				}
			} else {
				queries = append(queries, api.OrderDesc("$createdAt"))
			}

			if limit <= 0 || limit > constants.ListPageSize {
				limit = constants.ListPageSize
			}
			queries = append(queries, api.Limit(limit))

			list, err := client.ListFiles(ctx, queries...)
			if err != nil {
				return err
			}

			if len(list.Documents) == 0 {
				fmt.Println("No files.")
				return nil
			}

			fmt.Printf("%-10s  %-40s  %10s  %-20s  %s\n", "TYPE", "NAME", "SIZE", "CREATED", "ID")
			for _, doc := range list.Documents {
				fmt.Printf("%-10s  %-40s  %10d  %-20s  %s\n",
					doc.Type, doc.Name, doc.Size,
					doc.CreatedAt.Format("2006-01-02 15:04:05"), doc.ID)
			}
			fmt.Printf("\n%d of %d file(s)\n", len(list.Documents), list.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&fileType, "type", "", "Filter by file type (document, image, video, audio, other)")
	cmd.Flags().StringVar(&folderID, "folder", "", "List files in one folder")
	cmd.Flags().BoolVar(&rootOnly, "root", false, "List only root-level files")
	cmd.Flags().StringVar(&nameLike, "name", "", "Filter by name substring")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort as field-asc or field-desc (default $createdAt-desc)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum files to list")
	return cmd
}
