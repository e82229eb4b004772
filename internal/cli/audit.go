package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/FranksOps/uagen/internal/audit"
)

// ErrAuditFailed is returned by a strict audit that found invalid entries.
var ErrAuditFailed = errors.New("audit failed")

func (a *app) auditCmd() *cobra.Command {
	var asJSON, strict bool

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Parse every stored user-agent and report its distribution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := a.loadStore(cmd.Context())
			if err != nil {
				return err
			}

			res := audit.Audit(set.Items())
			a.logger.Debug("audited store", "entries", res.Total, "invalid", len(res.Invalid))

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return fmt.Errorf("encode audit: %w", err)
				}
			} else {
				writeAudit(out, res)
			}

			if strict && len(res.Invalid) > 0 {
				return fmt.Errorf("%w: %d of %d entries are not Chrome on Android", ErrAuditFailed, len(res.Invalid), res.Total)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the audit as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero if any entry fails to parse")
	return cmd
}

func writeAudit(w io.Writer, res audit.Result) {
	fmt.Fprintf(w, "Entries: %d\n", res.Total)
	if len(res.Invalid) == 0 {
		color.New(color.FgGreen).Fprintln(w, "Invalid: 0")
	} else {
		color.New(color.FgRed).Fprintf(w, "Invalid: %d\n", len(res.Invalid))
		for _, ua := range res.Invalid {
			fmt.Fprintf(w, "  %s\n", ua)
		}
	}

	fmt.Fprintln(w, "Markets:")
	for _, m := range sortedKeys(res.ByMarket) {
		fmt.Fprintf(w, "  %s: %d\n", m, res.ByMarket[m])
	}
	fmt.Fprintln(w, "Android:")
	for _, v := range sortedKeys(res.ByAndroid) {
		fmt.Fprintf(w, "  %d: %d\n", v, res.ByAndroid[v])
	}
	fmt.Fprintln(w, "Chrome:")
	for _, v := range sortedKeys(res.ByChrome) {
		fmt.Fprintf(w, "  %d: %d\n", v, res.ByChrome[v])
	}
}

func sortedKeys[K int | string](m map[K]int) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
