package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/yojanadost/yojanadost/internal/validate"
)

var (
	checkTimeout     time.Duration
	checkWorkers     int
	checkJSON        bool
	checkUnofficial  bool
	checkExtraDomain []string
	checkIgnoreRobot bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the official links in the catalog",
	Long: `Check sends a HEAD request to every scheme's link and reports:
- dead links (404/410, connection failures, missing URLs)
- redirects
- links outside official government domains (gov.in, nic.in)

Paths disallowed by the host's robots.txt are skipped unless --ignore-robots is set.

Exits non-zero when any link is broken, so it can run in CI.

Example:
  yojanadost check
  yojanadost check --json --workers 5
  yojanadost check --official-domain mudra.org.in --strict-domains`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 10*time.Second, "per-request timeout")
	checkCmd.Flags().IntVar(&checkWorkers, "workers", 20, "max concurrent requests")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print results as JSON")
	checkCmd.Flags().BoolVar(&checkUnofficial, "strict-domains", false, "also fail on links outside official domains")
	checkCmd.Flags().BoolVar(&checkIgnoreRobot, "ignore-robots", false, "request links even when robots.txt disallows them")
	checkCmd.Flags().StringSliceVar(&checkExtraDomain, "official-domain", nil, "additional domain to treat as official (repeatable)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	checker := validate.NewChecker(checkTimeout, checkWorkers, checkExtraDomain, a.config.LLM.HTTPProxy, a.config.LLM.HTTPSProxy)
	if !checkIgnoreRobot {
		checker.RespectRobots()
	}

	start := time.Now()
	results := checker.Check(ctx, a.schemes)
	summary := summarizeLinks(results)

	a.logger.Info().
		Int("checked", summary.Checked).
		Int("broken", summary.Broken).
		Int("unofficial", summary.Unofficial).
		Dur("duration", time.Since(start)).
		Msg("Link check complete")

	out := cmd.OutOrStdout()
	if checkJSON {
		err = writeLinksJSON(out, results)
	} else {
		err = writeLinksText(out, results)
	}
	if err != nil {
		return err
	}

	if summary.Broken > 0 {
		return fmt.Errorf("%d of %d links broken", summary.Broken, summary.Checked)
	}
	if checkUnofficial && summary.Unofficial > 0 {
		return fmt.Errorf("%d of %d links outside official domains", summary.Unofficial, summary.Checked)
	}
	return nil
}

type linkSummary struct {
	Checked    int
	Broken     int
	Unofficial int
}

func summarizeLinks(results []validate.LinkResult) linkSummary {
	s := linkSummary{Checked: len(results)}
	for _, r := range results {
		if r.Broken() {
			s.Broken++
		}
		if !r.Official {
			s.Unofficial++
		}
	}
	return s
}

func writeLinksJSON(w io.Writer, results []validate.LinkResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func writeLinksText(w io.Writer, results []validate.LinkResult) error {
	for _, r := range results {
		status := "ok"
		switch {
		case r.Skipped:
			status = "skipped"
		case r.Broken():
			status = "BROKEN"
		case r.RedirectURL != "":
			status = "moved"
		}

		line := fmt.Sprintf("%-7s %s  %s", status, r.Scheme, r.URL)
		if r.StatusCode != 0 {
			line += fmt.Sprintf(" (%d)", r.StatusCode)
		}
		if r.RedirectURL != "" {
			line += " -> " + r.RedirectURL
		}
		if r.Error != "" {
			line += "  " + r.Error
		}
		if !r.Official {
			line += "  [unofficial]"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	s := summarizeLinks(results)
	_, err := fmt.Fprintf(w, "\n%d checked, %d broken, %d unofficial\n", s.Checked, s.Broken, s.Unofficial)
	return err
}
