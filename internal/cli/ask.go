package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yojanadost/yojanadost/internal/engine"
	"github.com/yojanadost/yojanadost/internal/respond"
)

var askHTML bool

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <query...>",
	Short: "Answer a single query",
	Long: `Ask runs one query through the engine and prints the response.

Example:
  yojanadost ask ayushman bharat
  yojanadost ask "schemes for farmers" --html`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().BoolVar(&askHTML, "html", false, "print the HTML response instead of plain text")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	res := a.engine.Respond(ctx, strings.Join(args, " "))
	a.logger.Debug().Str("path", string(res.Path)).Int("matches", res.Matches).Msg("Query answered")

	return printResult(cmd.OutOrStdout(), res, askHTML)
}

func printResult(w io.Writer, res engine.Result, asHTML bool) error {
	text := res.Text
	if !asHTML {
		text = respond.PlainText(text)
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
