package ranking

import (
	"errors"
	"fmt"

	"sumo-go/internal/threshold"
)

var (
	ErrInvalidPoints = errors.New("points must be a non-negative integer")
	ErrInvalidLadder = errors.New("invalid level ladder")
)

// Tier represents a named band of point totals
type Tier struct {
	Name      string `json:"name" mapstructure:"name"`
	MinPoints int    `json:"min_points" mapstructure:"min_points"`
}

// NextLevel is the closest tier a student has not reached yet
type NextLevel struct {
	Name         string `json:"name"`
	PointsNeeded int    `json:"points_needed"`
}

// Progress holds the tier a point total sits in and what comes after it.
// Next is nil at the top of the ladder.
type Progress struct {
	Current Tier       `json:"current"`
	Next    *NextLevel `json:"next"`
}

// Default tiers in ascending order
var DefaultTiers = []Tier{
	{Name: "Bronze", MinPoints: 0},
	{Name: "Silver", MinPoints: 10},
	{Name: "Gold", MinPoints: 50},
	{Name: "Platinum", MinPoints: 100},
	{Name: "Diamond", MinPoints: 200},
	{Name: "Legend", MinPoints: 500},
}

// Ladder is a validated, immutable tier table
type Ladder struct {
	table *threshold.Table[int, Tier]
}

// NewLadder checks that tiers start at 0, increase strictly and are all named.
func NewLadder(tiers []Tier) (*Ladder, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: at least one tier is required", ErrInvalidLadder)
	}
	if tiers[0].MinPoints != 0 {
		return nil, fmt.Errorf("%w: first tier must start at 0, got %d", ErrInvalidLadder, tiers[0].MinPoints)
	}

	entries := make([]threshold.Entry[int, Tier], 0, len(tiers))
	for i, tier := range tiers {
		if tier.Name == "" {
			return nil, fmt.Errorf("%w: tier %d has no name", ErrInvalidLadder, i)
		}
		entries = append(entries, threshold.Entry[int, Tier]{Min: tier.MinPoints, Value: tier})
	}

	table, err := threshold.New(entries)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLadder, err)
	}
	return &Ladder{table: table}, nil
}

// MustLadder is NewLadder for static tables known to be valid
func MustLadder(tiers []Tier) *Ladder {
	l, err := NewLadder(tiers)
	if err != nil {
		panic(err)
	}
	return l
}

// ValidatePoints rejects point totals outside the domain of the resolvers
func ValidatePoints(points int) error {
	if points < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPoints, points)
	}
	return nil
}

// Resolve returns the current tier for points and the next one, if any.
// A total exactly on a threshold belongs to that threshold's tier.
func (l *Ladder) Resolve(points int) (Progress, error) {
	if err := ValidatePoints(points); err != nil {
		return Progress{}, err
	}

	i, err := l.table.Floor(points)
	if err != nil {
		// unreachable for a validated ladder, the first tier starts at 0
		return Progress{}, fmt.Errorf("resolve %d points: %w", points, err)
	}

	current, _ := l.table.At(i)
	progress := Progress{Current: current.Value}

	if next, ok := l.table.At(i + 1); ok {
		progress.Next = &NextLevel{
			Name:         next.Value.Name,
			PointsNeeded: next.Min - points,
		}
	}
	return progress, nil
}

// NextLevel returns the next tier for points, or nil at the top of the ladder
func (l *Ladder) NextLevel(points int) (*NextLevel, error) {
	progress, err := l.Resolve(points)
	if err != nil {
		return nil, err
	}
	return progress.Next, nil
}

// Tiers returns the ladder in ascending order
func (l *Ladder) Tiers() []Tier {
	entries := l.table.Entries()
	tiers := make([]Tier, len(entries))
	for i, e := range entries {
		tiers[i] = e.Value
	}
	return tiers
}
