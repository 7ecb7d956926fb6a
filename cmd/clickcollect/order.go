package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"click-collect/basket"
	"click-collect/checkout"
	"click-collect/models"

	"github.com/spf13/cobra"
)

type orderOptions struct {
	restaurant   string
	items        []string
	name         string
	phone        string
	email        string
	pickup       string
	instructions string
}

func newOrderCmd(a *app) *cobra.Command {
	var opts orderOptions

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place a pickup order",
		Example: `  clickcollect order --restaurant joes --item 1x2 --item 3 \
    --name Ada --phone "020 7946 0958" --pickup 18:30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.placeOrder(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.restaurant, "restaurant", "r", "", "restaurant slug")
	f.StringArrayVarP(&opts.items, "item", "i", nil, "menu item as ID or IDxQTY, repeatable")
	f.StringVar(&opts.name, "name", "", "your name")
	f.StringVar(&opts.phone, "phone", "", "phone number")
	f.StringVar(&opts.email, "email", "", "email for the receipt (optional)")
	f.StringVar(&opts.pickup, "pickup", "", "pickup time as HH:MM today or RFC 3339; defaults to the first free slot")
	f.StringVar(&opts.instructions, "note", "", "special instructions")
	_ = cmd.MarkFlagRequired("restaurant")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

func (a *app) placeOrder(cmd *cobra.Command, opts orderOptions) error {
	ctx := cmd.Context()

	restaurant, err := a.client.GetRestaurant(ctx, opts.restaurant)
	if err != nil {
		return err
	}
	menu, err := a.client.GetMenu(ctx, opts.restaurant)
	if err != nil {
		return err
	}
	byID := make(map[uint]models.MenuItem, len(menu))
	for _, m := range menu {
		byID[m.ID] = m
	}

	store := basket.NewStore()
	for _, raw := range opts.items {
		id, qty, err := parseItem(raw)
		if err != nil {
			return err
		}
		m, ok := byID[id]
		if !ok {
			return fmt.Errorf("item %d is not on the %s menu", id, restaurant.Slug)
		}
		store.AddItem(basket.Item{ID: m.ID, Name: m.Name, Price: m.Price}, restaurant.ID, restaurant.Slug)
		b := store.Snapshot()
		store.UpdateQuantity(m.ID, b.Quantity(m.ID)+qty-1)
	}

	pickup, err := parsePickup(opts.pickup, time.Now())
	if err != nil {
		return err
	}

	b := store.Snapshot()
	for _, it := range b.Items {
		fmt.Printf("%3d x %-30s %8.2f\n", it.Quantity, it.Name, it.Price*float64(it.Quantity))
	}
	fmt.Printf("%36s %8.2f\n", "Subtotal (pay at pickup)", b.Subtotal())

	submitter := checkout.NewSubmitter(store, a.client, a.logger)
	order, err := submitter.Submit(ctx, checkout.Form{
		CustomerName:        opts.name,
		CustomerPhone:       opts.phone,
		CustomerEmail:       opts.email,
		PickupTime:          pickup,
		SpecialInstructions: opts.instructions,
	})
	if err != nil {
		return errors.New(checkout.ErrorMessage(err))
	}

	fmt.Printf("\nOrder %s placed for pickup at %s.\n", order.OrderNumber, order.PickupTime.Local().Format("15:04"))
	fmt.Printf("Track it with: clickcollect track %s  (%s)\n", order.OrderNumber, checkout.TrackingPath(order))
	return nil
}

// parseItem reads "12" or "12x3".
func parseItem(s string) (uint, int, error) {
	idPart, qtyPart, hasQty := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil || id == 0 {
		return 0, 0, fmt.Errorf("bad item %q: want ID or IDxQTY", s)
	}
	qty := 1
	if hasQty {
		qty, err = strconv.Atoi(qtyPart)
		if err != nil || qty < 1 {
			return 0, 0, fmt.Errorf("bad quantity in %q", s)
		}
	}
	return uint(id), qty, nil
}

// parsePickup accepts "", "HH:MM" (today, local time) or an RFC 3339 time.
// An empty value picks the first slot offered. Other values must still match
// an offered slot when the order is submitted.
func parsePickup(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		slots := checkout.PickupSlots(now)
		if len(slots) == 0 {
			return time.Time{}, errors.New("no pickup slots left today, pass --pickup")
		}
		return slots[0], nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	clock, err := time.ParseInLocation("15:04", s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("bad pickup time %q: want HH:MM or RFC 3339", s)
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, now.Location()), nil
}
