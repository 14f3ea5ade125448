package ranking

import (
	"fmt"
	"time"

	"sumo-go/internal/threshold"
)

// Step is one row of the celebration table
type Step struct {
	MinPoints int           `mapstructure:"min_points"`
	Pieces    int           `mapstructure:"pieces"`
	Gravity   float64       `mapstructure:"gravity"`
	Duration  time.Duration `mapstructure:"duration"`
}

// Celebration is the confetti configuration handed to the front-end
type Celebration struct {
	ParticleCount int      `json:"particle_count"`
	Gravity       float64  `json:"gravity"`
	DurationMs    int64    `json:"duration_ms"`
	Recycle       bool     `json:"recycle"`
	ColorPalette  []string `json:"color_palette"`
}

const (
	defaultGravity  = 0.1
	defaultDuration = 1500 * time.Millisecond
)

// More points, more confetti
var DefaultSteps = []Step{
	{MinPoints: 0, Pieces: 50, Gravity: defaultGravity, Duration: defaultDuration},
	{MinPoints: 5, Pieces: 75, Gravity: defaultGravity, Duration: defaultDuration},
	{MinPoints: 10, Pieces: 100, Gravity: defaultGravity, Duration: defaultDuration},
	{MinPoints: 20, Pieces: 125, Gravity: defaultGravity, Duration: defaultDuration},
	{MinPoints: 30, Pieces: 150, Gravity: defaultGravity, Duration: defaultDuration},
	{MinPoints: 50, Pieces: 175, Gravity: defaultGravity, Duration: defaultDuration},
	{MinPoints: 100, Pieces: 200, Gravity: defaultGravity, Duration: defaultDuration},
	{MinPoints: 200, Pieces: 225, Gravity: defaultGravity, Duration: defaultDuration},
	{MinPoints: 500, Pieces: 250, Gravity: defaultGravity, Duration: defaultDuration},
	{MinPoints: 1000, Pieces: 300, Gravity: defaultGravity, Duration: defaultDuration},
}

var DefaultPalette = []string{"#FCD34D", "#F59E0B", "#F97316", "#F43F5E", "#EC4899"}

// Celebrations selects confetti intensity by point total
type Celebrations struct {
	table   *threshold.Table[int, Step]
	palette []string
}

func NewCelebrations(steps []Step, palette []string) (*Celebrations, error) {
	if len(steps) == 0 || steps[0].MinPoints != 0 {
		return nil, fmt.Errorf("%w: celebration table must start at 0", ErrInvalidLadder)
	}

	entries := make([]threshold.Entry[int, Step], len(steps))
	for i, step := range steps {
		if step.Pieces < 0 {
			return nil, fmt.Errorf("%w: step %d has negative pieces", ErrInvalidLadder, i)
		}
		// unset fields take the defaults
		if step.Gravity == 0 {
			step.Gravity = defaultGravity
		}
		if step.Duration == 0 {
			step.Duration = defaultDuration
		}
		if step.Gravity < 0 {
			return nil, fmt.Errorf("%w: step %d has negative gravity", ErrInvalidLadder, i)
		}
		// a bare integer decodes as nanoseconds
		if step.Duration < time.Millisecond {
			return nil, fmt.Errorf("%w: step %d duration %s is below 1ms", ErrInvalidLadder, i, step.Duration)
		}
		entries[i] = threshold.Entry[int, Step]{Min: step.MinPoints, Value: step}
	}

	table, err := threshold.New(entries)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLadder, err)
	}

	return &Celebrations{
		table:   table,
		palette: append([]string(nil), palette...),
	}, nil
}

func MustCelebrations(steps []Step, palette []string) *Celebrations {
	c, err := NewCelebrations(steps, palette)
	if err != nil {
		panic(err)
	}
	return c
}

// Select returns the parameters of the highest step not above points
func (c *Celebrations) Select(points int) (Celebration, error) {
	if err := ValidatePoints(points); err != nil {
		return Celebration{}, err
	}

	i, err := c.table.Floor(points)
	if err != nil {
		return Celebration{}, fmt.Errorf("select celebration for %d points: %w", points, err)
	}
	step, _ := c.table.At(i)

	return Celebration{
		ParticleCount: step.Value.Pieces,
		Gravity:       step.Value.Gravity,
		DurationMs:    step.Value.Duration.Milliseconds(),
		Recycle:       false,
		ColorPalette:  append([]string(nil), c.palette...),
	}, nil
}
