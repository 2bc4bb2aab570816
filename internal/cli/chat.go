package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/askdeck/askdeck/internal/learning"
)

// NewChatCmd creates the 'chat' command, an interactive REPL session.
func NewChatCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant interactively",
		Long: `Start an interactive chat session with the catalog assistant.

In-session commands:
  /feedback <positive|neutral|negative> [1-5]   rate the last response
  /trace                                        show the last execution trace
  /quit                                         end the session`,
		Example: `  askdeck chat
  askdeck chat --user alice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}
			defer app.close()

			return runChat(app, userID)
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "local", "User id for personalization")

	return cmd
}

// runChat drives the REPL loop over stdin.
func runChat(app *app, userID string) error {
	fmt.Println("askdeck chat. Type /quit to exit, /feedback or /trace for session commands.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	sessionID := ""

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := runChatCommand(app, sessionID, line); quit {
				break
			}
			continue
		}

		result, err := app.agent.ProcessMessage(context.Background(), userID, sessionID, line)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		sessionID = result.SessionID
		fmt.Println()
		fmt.Println(result.Response)
		fmt.Println()
	}

	return scanner.Err()
}

// runChatCommand handles one slash command. Returns true to end the session.
func runChatCommand(app *app, sessionID, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		fmt.Println("Bye.")
		return true

	case "/feedback":
		if sessionID == "" {
			fmt.Println("Nothing to rate yet.")
			return false
		}
		if len(fields) < 2 {
			fmt.Println("Usage: /feedback <positive|neutral|negative> [1-5]")
			return false
		}
		fb := learning.Feedback(fields[1])
		switch fb {
		case learning.FeedbackPositive, learning.FeedbackNeutral, learning.FeedbackNegative:
		default:
			fmt.Println("Feedback must be positive, neutral or negative.")
			return false
		}
		satisfaction := 0
		if len(fields) >= 3 {
			if n, err := strconv.Atoi(fields[2]); err == nil && n >= 1 && n <= 5 {
				satisfaction = n
			} else {
				fmt.Println("Satisfaction must be 1-5.")
				return false
			}
		}
		if app.learn.RecordFeedback(sessionID, fb, satisfaction) {
			fmt.Println("Thanks, feedback recorded.")
		} else {
			fmt.Println("No recent response to rate.")
		}

	case "/trace":
		history := app.tracer.History()
		if len(history) == 0 {
			fmt.Println("No traces yet.")
			return false
		}
		printTraceSummary(history[len(history)-1])

	default:
		fmt.Printf("Unknown command %s\n", fields[0])
	}
	return false
}
