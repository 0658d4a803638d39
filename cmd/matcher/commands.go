package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/example/talent-matching/internal/matching"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func newRecommendCmd(c *cli) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "recommend <candidate-id>",
		Short: "Rank open offers for a candidate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("count") {
				n = c.cfg.DefaultRecommendations
			}
			return c.withSession(cmd.Context(), false, func(engine *matching.Engine) error {
				recs, err := engine.Recommend(cmd.Context(), args[0], n)
				if err != nil {
					return reportResult(c.out, err)
				}
				candidate, _ := engine.Candidate(args[0])
				printRecommendations(c.out, candidate, recs)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 5, "number of offers to show (defaults to MATCHING_DEFAULT_RECOMMENDATIONS)")
	return cmd
}

func newApplyCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <candidate-id> <offer-id>",
		Short: "Apply a candidate to an offer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), true, func(engine *matching.Engine) error {
				if err := engine.Apply(cmd.Context(), args[0], args[1]); err != nil {
					return reportResult(c.out, err)
				}
				printSuccess(c.out, "candidate %s applied to offer %s", args[0], args[1])
				return nil
			})
		},
	}
}

func newWithdrawCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <candidate-id> <offer-id>",
		Short: "Withdraw a candidate's application",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), true, func(engine *matching.Engine) error {
				if err := engine.Withdraw(cmd.Context(), args[0], args[1]); err != nil {
					return reportResult(c.out, err)
				}
				printSuccess(c.out, "candidate %s withdrew from offer %s", args[0], args[1])
				return nil
			})
		},
	}
}

var errAborted = errors.New("aborted")

func newRemoveOfferCmd(c *cli) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove-offer <company-id> <offer-id>",
		Short: "Remove an offer together with every application to it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			companyID, offerID := args[0], args[1]
			return c.withSession(cmd.Context(), true, func(engine *matching.Engine) error {
				applicants, err := engine.Applicants(offerID)
				if err != nil {
					return reportResult(c.out, err)
				}
				if !yes {
					prompt := promptui.Prompt{
						Label:     fmt.Sprintf("Remove offer %s and its %d application(s)", offerID, len(applicants)),
						IsConfirm: true,
						Stdin:     c.in,
						Stdout:    nopWriteCloser{c.out},
					}
					if _, err := prompt.Run(); err != nil {
						if errors.Is(err, promptui.ErrAbort) {
							fmt.Fprintln(c.out, "offer kept")
							return errAborted
						}
						return err
					}
				}

				if err := engine.RemoveOffer(cmd.Context(), offerID, companyID); err != nil {
					return reportResult(c.out, err)
				}
				printSuccess(c.out, "offer %s removed, %d application(s) dropped", offerID, len(applicants))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newWishlistCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Manage a company's wishlist of candidates",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <company-id> <candidate-id>",
			Short: "Save a candidate to the wishlist",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withSession(cmd.Context(), true, func(engine *matching.Engine) error {
					if err := engine.AddToWishlist(cmd.Context(), args[0], args[1]); err != nil {
						return reportResult(c.out, err)
					}
					printSuccess(c.out, "candidate %s added to the wishlist of %s", args[1], args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove <company-id> <candidate-id>",
			Short: "Drop a candidate from the wishlist",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withSession(cmd.Context(), true, func(engine *matching.Engine) error {
					if err := engine.RemoveFromWishlist(cmd.Context(), args[0], args[1]); err != nil {
						return reportResult(c.out, err)
					}
					printSuccess(c.out, "candidate %s removed from the wishlist of %s", args[1], args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list <company-id>",
			Short: "List the wishlist in insertion order",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withSession(cmd.Context(), false, func(engine *matching.Engine) error {
					candidates, err := engine.Wishlist(args[0])
					if err != nil {
						return reportResult(c.out, err)
					}
					printCandidates(c.out, "Wishlist of "+args[0], candidates)
					return nil
				})
			},
		},
	)
	return cmd
}

func newStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count offers per type and state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd.Context(), false, func(engine *matching.Engine) error {
				printStats(c.out, engine.Stats())
				return nil
			})
		},
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
