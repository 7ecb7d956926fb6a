package statemachine

import (
	"errors"
	"fmt"
	"strings"

	"click-collect/models"
)

// Actor is who requests a status change
type Actor string

const (
	ActorRestaurant Actor = "restaurant"
	ActorCustomer   Actor = "customer"
)

var ErrInvalidTransition = errors.New("invalid transition")

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor Actor              `json:"actor"`
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Restaurant accepts or rejects a new order
	{From: models.StatusPending, To: models.StatusConfirmed, Actor: ActorRestaurant},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorRestaurant},
	// Kitchen finished, or restaurant cancels after accepting
	{From: models.StatusConfirmed, To: models.StatusReady, Actor: ActorRestaurant},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: ActorRestaurant},
	// Handover at the counter, confirmed by either side
	{From: models.StatusReady, To: models.StatusCollected, Actor: ActorCustomer},
	{From: models.StatusReady, To: models.StatusCollected, Actor: ActorRestaurant},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another.
// The returned error wraps ErrInvalidTransition.
func CanTransition(from, to models.OrderStatus, actor Actor) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s is not allowed for %s; valid transitions from %s: %s",
		ErrInvalidTransition, from, to, actor, from, describeValidFrom(from))
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	out := make([]Transition, len(validTransitions))
	copy(out, validTransitions)
	return out
}
