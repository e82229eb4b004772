package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FranksOps/uagen/internal/generator"
	"github.com/FranksOps/uagen/pkg/useragent"
)

// ErrEmptyStore is returned by pick when there is nothing to pick from.
var ErrEmptyStore = errors.New("store is empty")

func (a *app) pickCmd() *cobra.Command {
	var count int
	var sequential bool

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Print user-agents drawn from the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count <= 0 {
				return fmt.Errorf("%w: count must be positive, got %d", generator.ErrInvalidArgument, count)
			}

			set, err := a.loadStore(cmd.Context())
			if err != nil {
				return err
			}

			pool := useragent.NewPool(set.Items())
			if pool.Len() == 0 {
				return fmt.Errorf("%w: %s", ErrEmptyStore, a.cfg.Output)
			}

			order := useragent.Shuffled
			if sequential {
				order = useragent.Stored
			}
			for _, ua := range pool.Take(count, order) {
				fmt.Fprintln(cmd.OutOrStdout(), ua)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "k", 1, "number of user-agents to print")
	cmd.Flags().BoolVar(&sequential, "sequential", false, "print in stored order instead of distinct random entries")
	return cmd
}
