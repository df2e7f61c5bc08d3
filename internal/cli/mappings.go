package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roboco-io/ew2propresenter/internal/config"
	"github.com/roboco-io/ew2propresenter/internal/sections"
)

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Manage section marker mappings",
	Long: `Manage the table that maps section marker words in lyrics (like
"Refräng" or "Vers 2") to ProPresenter group labels.

The table is stored as JSON at ~/.ew2propresenter/section_mappings.json.
Without one, the built-in lexicons for the configured languages are used.

Subcommands:
  show       Show the active mapping table
  init       Create a mapping file from the built-in lexicons
  languages  List languages with built-in lexicons`,
}

var mappingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active mapping table",
	RunE:  runMappingsShow,
}

var (
	mappingsInitLanguages []string
	mappingsInitForce     bool
)

var mappingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a mapping file from the built-in lexicons",
	Long: `Create a section mapping file populated from the built-in lexicons
of the given languages. When the same marker word appears in several
languages, the first listed language wins.

Examples:
  ew2propresenter mappings init --language swedish --language english
  ew2propresenter mappings init --force`,
	RunE: runMappingsInit,
}

var mappingsLanguagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List languages with built-in lexicons",
	Run: func(cmd *cobra.Command, args []string) {
		for _, lang := range sections.Languages() {
			lex, _ := sections.Lexicon(lang)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d terms)\n", lang, len(lex))
		}
	},
}

func init() {
	mappingsInitCmd.Flags().StringSliceVar(&mappingsInitLanguages, "language", nil,
		"language lexicon to include (repeatable; default: from config)")
	mappingsInitCmd.Flags().BoolVarP(&mappingsInitForce, "force", "f", false, "overwrite an existing mapping file")

	mappingsCmd.AddCommand(mappingsShowCmd)
	mappingsCmd.AddCommand(mappingsInitCmd)
	mappingsCmd.AddCommand(mappingsLanguagesCmd)

	rootCmd.AddCommand(mappingsCmd)
}

func runMappingsShow(cmd *cobra.Command, args []string) error {
	loader, err := config.NewLoader()
	if err != nil {
		return fmt.Errorf("failed to initialize config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	table, err := loadMappingTable("", cfg)
	if err != nil {
		return err
	}

	mappings := table.Mappings()
	terms := make([]string, 0, len(mappings))
	for term := range mappings {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MARKER\tLABEL")
	for _, term := range terms {
		fmt.Fprintf(w, "%s\t%s\n", term, mappings[term])
	}
	w.Flush()

	rules := table.Rules()
	fmt.Fprintf(cmd.OutOrStdout(), "\nNumber format: %q (preserve=%v)\n",
		rules.Format, rules.PreserveNumbers)
	return nil
}

func runMappingsInit(cmd *cobra.Command, args []string) error {
	loader, err := config.NewLoader()
	if err != nil {
		return fmt.Errorf("failed to initialize config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	languages := mappingsInitLanguages
	if len(languages) == 0 {
		languages = cfg.Sections.Languages
	}

	var table *sections.Table
	if len(languages) > 0 {
		for _, lang := range languages {
			if _, ok := sections.Lexicon(lang); !ok {
				return fmt.Errorf("unknown language: %s (available: %s)",
					lang, strings.Join(sections.Languages(), ", "))
			}
		}
		table = sections.MergedTable(languages...)
	} else {
		table = sections.DefaultTable()
	}

	path, err := defaultMappingsPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !mappingsInitForce {
		return fmt.Errorf("mapping file already exists: %s (use --force to overwrite)", path)
	}

	if err := sections.SaveTable(table, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Mapping file created: %s (%d terms)\n", path, table.Len())
	return nil
}
