// internal/events/types.go
package events

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/curvelabs/launchpad/internal/types"
)

// EventType represents the type of event.
type EventType string

const (
	// Launch lifecycle events
	LaunchCreated    EventType = "launch-created"
	Traded           EventType = "traded"
	Completed        EventType = "completed"
	Unlocked         EventType = "unlocked"
	ReserveWithdrawn EventType = "reserve-withdrawn"

	// AnyEvent subscribes a handler to every event type.
	AnyEvent EventType = "*"
)

// Event is the base interface for all events.
type Event interface {
	Type() EventType
	Timestamp() time.Time
	Asset() string
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	EventType EventType
	EventTime time.Time
	AssetID   string
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

// Asset returns the asset the event concerns.
func (e BaseEvent) Asset() string {
	return e.AssetID
}

// LaunchCreatedEvent is emitted when a new asset launch is registered.
type LaunchCreatedEvent struct {
	BaseEvent
	Name     string
	Symbol   string
	Metadata string
	Creator  types.Address
}

// TradedEvent is emitted for every successful buy or sell.
type TradedEvent struct {
	BaseEvent
	Trader         types.Address
	CurrencyAmount *uint256.Int
	UnitsAmount    *uint256.Int
	NewPrice       *uint256.Int
	Direction      types.TradeDirection
}

// CompletedEvent is emitted when a launch reaches its terminal state.
type CompletedEvent struct {
	BaseEvent
	FinalSupply *uint256.Int
	FinalPrice  *uint256.Int
}

// UnlockedEvent is emitted when the creator's cumulative purchase opens the
// launch to the public. Fires exactly once per launch.
type UnlockedEvent struct {
	BaseEvent
	Creator             types.Address
	CumulativePurchased *uint256.Int
}

// ReserveWithdrawnEvent is emitted when the authority withdraws the held reserve.
type ReserveWithdrawnEvent struct {
	BaseEvent
	Authority types.Address
	Amount    *uint256.Int
}
