package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

// NewLearningCmd creates the 'learning' command group.
func NewLearningCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learning",
		Short: "Inspect and manage the learning system",
	}

	cmd.AddCommand(newLearningExportCmd())
	cmd.AddCommand(newLearningPatternsCmd())
	cmd.AddCommand(newLearningClearCmd())

	return cmd
}

// newLearningExportCmd exports interactions, preferences and model state.
func newLearningExportCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export learning data as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}
			defer app.close()

			data, err := app.learn.ExportLearningData()
			if err != nil {
				return fmt.Errorf("failed to export learning data: %w", err)
			}

			if outputFile != "" {
				if err := os.WriteFile(outputFile, data, 0644); err != nil {
					return fmt.Errorf("failed to write export: %w", err)
				}
				fmt.Printf("Exported learning data to %s\n", outputFile)
				return nil
			}
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

// newLearningPatternsCmd prints the learning pattern summary.
func newLearningPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "Show learned accuracy and success patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}
			defer app.close()

			summary := app.learn.AnalyzeLearningPatterns()

			fmt.Println("Learning Patterns")
			fmt.Println("=================")
			fmt.Printf("Interactions recorded: %d\n", summary.TotalInteractions)
			fmt.Printf("Active users:          %d\n", summary.ActiveUsers)
			fmt.Printf("Feedback rate:         %.0f%% (%.0f%% positive)\n",
				summary.FeedbackRate*100, summary.PositiveRate*100)
			if summary.AverageSatisfaction > 0 {
				fmt.Printf("Average satisfaction:  %.1f/5\n", summary.AverageSatisfaction)
			}

			if len(summary.IntentAccuracy) > 0 {
				fmt.Println("\nIntent accuracy:")
				intents := make([]string, 0, len(summary.IntentAccuracy))
				for k := range summary.IntentAccuracy {
					intents = append(intents, k)
				}
				sort.Strings(intents)
				for _, k := range intents {
					fmt.Printf("  %-22s %.0f%%\n", k, summary.IntentAccuracy[k]*100)
				}
			}
			if len(summary.TopTools) > 0 {
				fmt.Println("\nTop tools by success rate:")
				for _, t := range summary.TopTools {
					fmt.Printf("  %-22s %.0f%%\n", t.ToolID, t.Rate*100)
				}
			}
			if summary.Misclassifications > 0 {
				fmt.Printf("\nMisclassifications logged: %d\n", summary.Misclassifications)
			}
			return nil
		},
	}
}

// newLearningClearCmd wipes all learning state.
func newLearningClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all learning data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Println("This deletes all interactions, preferences and learned scores.")
				fmt.Println("Re-run with --yes to confirm.")
				return nil
			}

			app, err := buildApp()
			if err != nil {
				return err
			}
			defer app.close()

			app.learn.ClearLearningData()
			fmt.Println("Learning data cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")

	return cmd
}
