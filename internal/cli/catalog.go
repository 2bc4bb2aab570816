package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/askdeck/askdeck/internal/catalog"
	"github.com/askdeck/askdeck/internal/config"
	"github.com/askdeck/askdeck/internal/respond"
)

// NewCatalogCmd creates the 'catalog' command group.
func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and maintain the tool catalog",
	}

	cmd.AddCommand(newCatalogListCmd())
	cmd.AddCommand(newCatalogShowCmd())
	cmd.AddCommand(newCatalogStatsCmd())
	cmd.AddCommand(newCatalogSearchCmd())
	cmd.AddCommand(newCatalogRefreshCmd())

	return cmd
}

// catalogRecords loads the configured catalog without the full pipeline.
func catalogRecords() (*config.Config, []catalog.Record, error) {
	config.Bootstrap()
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	records, err := loadCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, records, nil
}

func newCatalogListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all catalog tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, records, err := catalogRecords()
			if err != nil {
				return err
			}

			if jsonOutput {
				data, err := json.MarshalIndent(records, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal catalog: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Printf("Catalog tools (%d):\n\n", len(records))
			for _, r := range records {
				marker := " "
				if r.Featured {
					marker = "*"
				}
				fmt.Printf("%s %s (%s, %s)\n", marker, r.Name, r.Type, r.Status)
				fmt.Printf("    %s\n", r.Purpose)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func newCatalogShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one tool in detail",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, records, err := catalogRecords()
			if err != nil {
				return err
			}

			name := strings.Join(args, " ")
			record := catalog.FindByName(records, name)
			if record == nil {
				return fmt.Errorf("no tool matching %q in the catalog", name)
			}

			fmt.Printf("%s\n", record.Name)
			fmt.Printf("  Type:         %s\n", record.Type)
			fmt.Printf("  Status:       %s\n", record.Status)
			fmt.Printf("  Purpose:      %s\n", record.Purpose)
			if labels := record.CapabilityLabels(); len(labels) > 0 {
				fmt.Printf("  Capabilities: %s\n", strings.Join(labels, ", "))
			}
			if record.Cost != "" {
				fmt.Printf("  Cost:         %s\n", record.Cost)
			}
			if record.Access != "" {
				fmt.Printf("  Access:       %s\n", record.Access)
			}
			if record.AccessURL != "" {
				fmt.Printf("  Access URL:   %s\n", record.AccessURL)
			}
			if record.BestFor != "" {
				fmt.Printf("  Best for:     %s\n", record.BestFor)
			}
			if len(record.Tags) > 0 {
				fmt.Printf("  Tags:         %s\n", strings.Join(record.Tags, ", "))
			}
			return nil
		},
	}
}

func newCatalogStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog analytics",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, records, err := catalogRecords()
			if err != nil {
				return err
			}
			fmt.Println(respond.NewAnalytics(records).Overview())
			return nil
		},
	}
}

func newCatalogSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, records, err := catalogRecords()
			if err != nil {
				return err
			}

			index, err := catalog.NewIndex(records)
			if err != nil {
				return fmt.Errorf("failed to build catalog index: %w", err)
			}
			defer index.Close()

			hits, err := index.Search(strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				fmt.Println("No matches.")
				return nil
			}
			for i, hit := range hits {
				fmt.Printf("%d. %s (score %.2f)\n   %s\n", i+1, hit.Record.Name, hit.Score, hit.Record.Purpose)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Max results")

	return cmd
}

func newCatalogRefreshCmd() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the latest catalog from the configured URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := catalogRecords()
			if err != nil {
				return err
			}

			if url == "" {
				url = cfg.CatalogURL
			}
			if url == "" {
				return fmt.Errorf("no catalog URL configured; set catalogUrl in the config or pass --url")
			}
			if cfg.CatalogPath == "" {
				return fmt.Errorf("no catalogPath configured to save the refreshed catalog to")
			}

			records, err := catalog.Refresh(cmd.Context(), url)
			if err != nil {
				return err
			}
			if err := catalog.Save(records, cfg.CatalogPath); err != nil {
				return err
			}

			fmt.Printf("Refreshed catalog: %d tools saved to %s\n", len(records), cfg.CatalogPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Catalog endpoint (default from config)")

	return cmd
}
