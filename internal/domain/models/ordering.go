package models

import (
	"fmt"
	"strings"
)

// Direction is a one-step move within an ordered scope.
type Direction string

const (
	// Backward moves toward lower display_order ("up" in the admin UI).
	Backward Direction = "backward"
	// Forward moves toward higher display_order ("down" in the admin UI).
	Forward Direction = "forward"
)

// ParseDirection accepts the UI labels as well as the canonical names.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "backward":
		return Backward, nil
	case "down", "forward":
		return Forward, nil
	}
	return "", fmt.Errorf("direction must be one of up, down, backward, forward")
}

// OrderScope names a set of rows whose display_order values are compared.
type OrderScope string

const (
	ScopeProjects       OrderScope = "projects"
	ScopeProjectImages  OrderScope = "project_images"
	ScopePortfolioItems OrderScope = "portfolio_items"
)

// Noun is the singular used in user facing ordering errors.
func (s OrderScope) Noun() string {
	switch s {
	case ScopeProjects:
		return "project"
	case ScopeProjectImages:
		return "image"
	default:
		return "item"
	}
}

// Position is the ordering view of a single row.
// ScopeKey is nil for unscoped tables.
type Position struct {
	ID           int64
	DisplayOrder int
	ScopeKey     *int64
}

// SwapResult reports the new orders after a successful move.
type SwapResult struct {
	Scope        OrderScope `json:"scope"`
	ID           int64      `json:"id"`
	DisplayOrder int        `json:"display_order"`
	SwappedID    int64      `json:"swapped_id"`
	SwappedOrder int        `json:"swapped_display_order"`
}
