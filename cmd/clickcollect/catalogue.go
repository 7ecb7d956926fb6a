package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"click-collect/checkout"
	"click-collect/hours"

	"github.com/spf13/cobra"
)

func newRestaurantsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restaurants",
		Short: "List restaurants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.client.ListRestaurants(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tNAME\tCUISINE\tHOURS\tORDERING")
			for _, r := range list {
				ordering := "open"
				if !r.IsOpen {
					ordering = "paused"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Slug, r.Name, r.Cuisine, r.OpeningHours, ordering)
			}
			return w.Flush()
		},
	}
}

func newMenuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu <restaurant-slug>",
		Short: "Show a restaurant's menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := a.client.GetRestaurant(ctx, args[0])
			if err != nil {
				return err
			}
			items, err := a.client.GetMenu(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s  %s\n", r.Name, r.Address)
			if r.OpeningHours != "" {
				status := "closed now"
				if sched, _ := hours.Parse(r.OpeningHours); sched.IsOpenAt(time.Now()) {
					status = "open now"
				}
				fmt.Printf("Hours: %s (%s)\n", r.OpeningHours, status)
			}
			fmt.Println()

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tITEM\tCATEGORY\tPRICE\t")
			for _, m := range items {
				note := ""
				if !m.IsAvailable {
					note = "sold out"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\n", m.ID, m.Name, m.Category, m.Price, note)
			}
			return w.Flush()
		},
	}
}

func newSlotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "List the pickup times offered right now",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			slots := checkout.PickupSlots(time.Now())
			if len(slots) == 0 {
				fmt.Println("No pickup slots left today.")
				return nil
			}
			for _, s := range slots {
				fmt.Println(s.Format("15:04"))
			}
			return nil
		},
	}
}
