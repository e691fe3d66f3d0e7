package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/driveport/driveport/internal/auth"
	"github.com/driveport/driveport/internal/events"
	"github.com/driveport/driveport/internal/folders"
	"github.com/driveport/driveport/internal/localfs"
	"github.com/driveport/driveport/internal/notify"
	"github.com/driveport/driveport/internal/progress"
	"github.com/driveport/driveport/internal/upload"
)

// newUploadCmd creates the 'upload' command.
func newUploadCmd() *cobra.Command {
	var (
		maxConcurrent int
		includeHidden bool
	)

	cmd := &cobra.Command{
		Use:   "upload <file-or-directory>...",
		Short: "Upload files or directory trees",
		Long: `Upload files to the platform. Directories upload recursively: their
folder structure is recreated remotely before any file transfers, parents
before children, and each file lands in its resolved folder.

Loose files upload to the drive root. Transfers run concurrently; Ctrl-C
cancels everything in flight.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, cfg, user, err := newClient(ctx)
			if err != nil {
				return err
			}

			if maxConcurrent >= 0 {
				cfg.Uploads.MaxConcurrent = maxConcurrent
			}

			// Separate loose files from directory trees up front so a bad
			// path fails the whole invocation before anything transfers.
			var batch []upload.File
			var treePaths []string
			for _, arg := range args {
				info, err := os.Stat(arg)
				if err != nil {
					return fmt.Errorf("cannot read %s: %w", arg, err)
				}
				if info.IsDir() {
					tree, err := localfs.CollectBatch(arg, localfs.WalkOptions{IncludeHidden: includeHidden})
					if err != nil {
						return err
					}
					if len(tree) == 0 {
						logger.Warn().Str("dir", arg).Msg("Directory has no files to upload")
						continue
					}
					batch = append(batch, tree...)
					treePaths = append(treePaths, localfs.RelativePaths(tree)...)
				} else {
					file, err := localfs.LooseFile(arg)
					if err != nil {
						return err
					}
					batch = append(batch, file)
				}
			}
			if len(batch) == 0 {
				return fmt.Errorf("nothing to upload")
			}

			bus := events.NewEventBus(0)
			defer bus.Close()
			notifier := notify.NewNotifier(bus, logger)

			var folderMap map[string]string
			if len(treePaths) > 0 {
				resolver := folders.NewResolver(client, logger)
				folderMap, err = resolver.Resolve(ctx, treePaths, user.ID, user.AccountID)
				if err != nil {
					notifier.Error(fmt.Sprintf("Folder creation failed: %v", err))
					return err
				}
				logger.Info().Int("folders", len(folderMap)).Msg("Remote folder structure created")
			}

			tokens := auth.NewTokenSource(client, logger)
			manager := upload.NewManager(client, tokens, bus, logger, cfg.Uploads, *user)

			var renderer *progress.Renderer
			if term.IsTerminal(int(os.Stderr.Fd())) {
				renderer = progress.NewRenderer(bus, os.Stderr)
				go renderer.Run()
			}

			notifier.Info(fmt.Sprintf("Uploading %d file(s), %d byte(s)",
				len(batch), localfs.TotalSize(batch)))

			manager.AddFiles(ctx, batch, folderMap)
			manager.Wait()

			if renderer != nil {
				renderer.Stop()
			}

			stats := manager.GetStats()
			fmt.Printf("\n%d uploaded, %d failed, %d canceled\n",
				stats.Success, stats.Error, stats.Canceled)

			for _, item := range manager.Items() {
				if item.Status == upload.StatusError {
					fmt.Printf("  %s: %s\n", item.Name, item.Error)
				}
			}

			if stats.Error > 0 {
				return fmt.Errorf("%d upload(s) failed", stats.Error)
			}
			if stats.Canceled > 0 {
				return fmt.Errorf("%d upload(s) canceled", stats.Canceled)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxConcurrent, "max-concurrent", -1, "Concurrent transfer cap (0 = unbounded, -1 = use config)")
	cmd.Flags().BoolVar(&includeHidden, "include-hidden", false, "Include dot-files in directory uploads")
	return cmd
}
