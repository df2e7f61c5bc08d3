package cli

import (
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roboco-io/ew2propresenter/internal/config"
	"github.com/roboco-io/ew2propresenter/internal/easyworship"
)

var listDatabase string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List songs in the EasyWorship database",
	Long: `List all songs in the EasyWorship database with id, title, author
and CCLI number, ordered by title.

Examples:
  ew2propresenter list --database ~/EasyWorship/Data`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listDatabase, "database", "d", "", "EasyWorship database directory")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	loader, err := config.NewLoader()
	if err != nil {
		return fmt.Errorf("failed to initialize config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbPath := resolveDatabasePath(listDatabase, cfg)
	if dbPath == "" {
		return fmt.Errorf("no database directory given (use --database, the config file, or EASYWORSHIP_DB_PATH)")
	}

	db, err := easyworship.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	records, err := db.AllSongs(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tCCLI")
	for _, rec := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", rec.ID, rec.Title, rec.Author, rec.ReferenceNumber)
	}
	w.Flush()

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d song(s)\n", len(records))
	return nil
}
