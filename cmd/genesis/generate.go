package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"genesis-backend/internal/render"

	"github.com/spf13/cobra"
)

var generateCode bool

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate one component and print its HTML",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		c.Connect(ctx)
		reply, err := c.Send(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		printReply(reply, generateCode)
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render a local snippet without contacting the server",
	Long: `Render a snippet file through the same pipeline the client uses for
generated components. Use - to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			src []byte
			err error
		)
		if args[0] == "-" {
			src, err = io.ReadAll(os.Stdin)
		} else {
			src, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}

		a := render.NewPipeline(nil).Render(cmd.Context(), string(src))
		if a.Fallback {
			cmd.PrintErrln(metaStyle.Render("rendered template " + a.Template + ": " + a.Diagnostic))
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.HTML)
		return nil
	},
}

func init() {
	generateCmd.Flags().BoolVar(&generateCode, "code", false, "Print the generated source before the HTML")
}
