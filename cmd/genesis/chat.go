package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"genesis-backend/internal/client"
	"genesis-backend/internal/model"

	"github.com/spf13/cobra"
)

var (
	showCode       bool
	transcriptPath string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive generation session",
	Long: `Start an interactive session. Each line is sent as a prompt.

Commands:
  /model <deepseek|gemini>  switch backend
  /clear                    forget the conversation and start a new session
  /quit                     leave`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		mode := c.Connect(ctx)
		fmt.Println(headerStyle.Render("genesis"))
		fmt.Println(metaStyle.Render(fmt.Sprintf("session %s, %s, model %s", c.SessionID(), modeLabel(mode), c.Backend())))

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for {
			fmt.Print(userStyle.Render("> "))
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if quit := chatCommand(ctx, c, line); quit {
				break
			}
			if ctx.Err() != nil {
				break
			}
		}

		if transcriptPath != "" {
			if err := writeTranscript(transcriptPath, c.SessionID(), c.Messages()); err != nil {
				return err
			}
			fmt.Println(metaStyle.Render("transcript written to " + transcriptPath))
		}
		return scanner.Err()
	},
}

// chatCommand handles one input line and reports whether the session should end.
func chatCommand(ctx context.Context, c *client.Client, line string) bool {
	switch {
	case line == "/quit" || line == "/exit":
		return true
	case line == "/clear":
		c.Clear(ctx)
		fmt.Println(metaStyle.Render("new session " + c.SessionID()))
	case strings.HasPrefix(line, "/model"):
		name := strings.TrimSpace(strings.TrimPrefix(line, "/model"))
		if err := c.SwitchModel(model.Backend(name)); err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			break
		}
		fmt.Println(assistantStyle.Render(fmt.Sprintf("Switched to %s model", name)))
	default:
		reply, err := c.Send(ctx, line)
		var gerr *client.GenerationError
		switch {
		case errors.As(err, &gerr):
			fmt.Println(errorStyle.Render("Error: " + gerr.Message))
		case err != nil:
			fmt.Println(errorStyle.Render(err.Error()))
		default:
			fmt.Println(assistantStyle.Render("Here is the generated component:"))
			printReply(reply, showCode)
		}
	}
	return false
}

func init() {
	chatCmd.Flags().BoolVar(&showCode, "code", false, "Print the generated source before the HTML")
	chatCmd.Flags().StringVarP(&transcriptPath, "transcript", "t", "", "Write the conversation as YAML on exit")
}
