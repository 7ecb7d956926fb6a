package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"click-collect/models"
	"click-collect/tracker"

	"github.com/spf13/cobra"
)

func printView(v tracker.View) {
	if v.Err != nil {
		fmt.Printf("could not refresh: %v\n", v.Err)
		return
	}
	if v.Order == nil {
		return
	}
	fmt.Printf("[%s] %s  %s\n", v.UpdatedAt.Format("15:04:05"), v.Order.OrderNumber, v.Progress().Render())
}

func newTrackCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "track <order-number>",
		Short: "Follow an order until it is collected or cancelled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			done := make(chan struct{})
			var (
				mu   sync.Mutex
				last models.OrderStatus
			)
			p := tracker.New(args[0], a.client,
				tracker.WithInterval(a.v.GetDuration("poll-interval")),
				tracker.WithLogger(a.logger),
				tracker.WithOnUpdate(func(v tracker.View) {
					mu.Lock()
					defer mu.Unlock()
					if v.Err == nil && v.Order != nil && v.Order.Status == last {
						return
					}
					printView(v)
					if v.Order != nil {
						last = v.Order.Status
						if last.Terminal() {
							select {
							case <-done:
							default:
								close(done)
							}
						}
					}
				}),
			)
			p.Start(ctx)
			defer p.Stop()

			select {
			case <-ctx.Done():
			case <-done:
				mu.Lock()
				collected := last == models.StatusCollected
				mu.Unlock()
				if collected {
					fmt.Printf("Enjoy! Rate it with: clickcollect review %s --rating 5\n", args[0])
				}
			}
			return nil
		},
	}
}

func newCollectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "collect <order-number>",
		Short: "Confirm you picked the order up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tracker.New(args[0], a.client, tracker.WithLogger(a.logger))
			if err := load(cmd.Context(), p); err != nil {
				return err
			}
			if !p.CanMarkCollected() {
				return fmt.Errorf("order is %s, it can be collected once it is ready", p.State().Order.Status)
			}
			if !p.MarkCollected(cmd.Context()) {
				return errors.New("could not mark the order as collected, please try again")
			}
			printView(p.State())
			return nil
		},
	}
}

func newReviewCmd(a *app) *cobra.Command {
	var (
		rating  int
		comment string
	)
	cmd := &cobra.Command{
		Use:   "review <order-number>",
		Short: "Rate a collected order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rating < 1 || rating > 5 {
				return errors.New("--rating must be between 1 and 5")
			}
			p := tracker.New(args[0], a.client, tracker.WithLogger(a.logger))
			if err := load(cmd.Context(), p); err != nil {
				return err
			}
			if !p.CanReview() {
				if p.State().Review != nil {
					return errors.New("this order has already been reviewed")
				}
				return fmt.Errorf("order is %s, reviews open once it is collected", p.State().Order.Status)
			}
			if !p.SubmitReview(cmd.Context(), rating, comment) {
				return errors.New("could not submit the review, please try again")
			}
			fmt.Println("Thanks for your review!")
			return nil
		},
	}
	cmd.Flags().IntVar(&rating, "rating", 0, "1 to 5 stars")
	cmd.Flags().StringVar(&comment, "comment", "", "optional comment")
	_ = cmd.MarkFlagRequired("rating")
	return cmd
}

func load(ctx context.Context, p *tracker.Poller) error {
	v := p.Load(ctx)
	if v.Err != nil {
		return v.Err
	}
	if v.Order == nil {
		return errors.New("order not found")
	}
	return nil
}
