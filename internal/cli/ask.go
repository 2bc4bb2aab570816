package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewAskCmd creates the 'ask' command for one-shot questions.
func NewAskCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the assistant a single question",
		Example: `  askdeck ask "what tools can generate images?"
  askdeck ask "compare ChatGPT and Claude"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}
			defer app.close()

			result, err := app.agent.ProcessMessage(context.Background(), userID, "", strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Println(result.Response)
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "local", "User id for personalization")

	return cmd
}
