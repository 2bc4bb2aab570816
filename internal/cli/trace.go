package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/askdeck/askdeck/internal/trace"
)

// NewTraceCmd creates the 'trace' command group.
func NewTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect execution traces",
	}

	cmd.AddCommand(newTraceListCmd())
	cmd.AddCommand(newTraceExportCmd())

	return cmd
}

func newTraceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recent traces",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}
			defer app.close()

			history := app.tracer.History()
			if len(history) == 0 {
				fmt.Println("No traces recorded in this process.")
				return nil
			}
			for _, t := range history {
				fmt.Printf("%s  %4dms  %d spans  %q\n", t.ID, t.DurationMs, len(t.Spans), t.UserQuery)
			}
			return nil
		},
	}
}

func newTraceExportCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "export <trace-id>",
		Short: "Export one trace as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}
			defer app.close()

			data, err := app.tracer.ExportTrace(args[0])
			if err != nil {
				return err
			}

			if outputFile != "" {
				if err := os.WriteFile(outputFile, data, 0644); err != nil {
					return fmt.Errorf("failed to write trace: %w", err)
				}
				fmt.Printf("Exported trace to %s\n", outputFile)
				return nil
			}
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

// printTraceSummary renders one trace for terminal reading.
func printTraceSummary(t trace.Trace) {
	fmt.Printf("Trace %s (%dms) for %q\n", t.ID, t.DurationMs, t.UserQuery)
	for _, span := range t.Spans {
		fmt.Printf("  [%s] %s: %s\n", span.Status, span.Type, span.Name)
		for _, ev := range span.Events {
			fmt.Printf("      %s: %s\n", ev.Kind, ev.Message)
		}
	}
}
