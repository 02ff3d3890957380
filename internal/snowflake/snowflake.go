// Package snowflake implements a clock-based unique ID generator.
//
// Each ID is a 64-bit integer laid out as:
//
//	41 bit timestamp (ms since custom epoch) | 5 bit datacenter | 5 bit worker | 12 bit sequence
//
// IDs from a single generator are strictly increasing. Uniqueness across
// generators relies on distinct (datacenter, worker) pairs, which is a
// deployment concern.
package snowflake

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	// epoch is 2022-01-01T00:00:00Z in Unix milliseconds. Changing it
	// invalidates every previously issued ID.
	epoch int64 = 1640995200000

	datacenterBits = 5
	workerBits     = 5
	sequenceBits   = 12

	maxDatacenterID = (1 << datacenterBits) - 1 // 31
	maxWorkerID     = (1 << workerBits) - 1     // 31
	maxSequence     = (1 << sequenceBits) - 1   // 4095

	workerShift     = sequenceBits
	datacenterShift = sequenceBits + workerBits
	timestampShift  = sequenceBits + workerBits + datacenterBits
)

var (
	// ErrInvalidDatacenterID is returned when the datacenter ID is outside [0, 31].
	ErrInvalidDatacenterID = errors.New("snowflake: datacenter ID must be between 0 and 31")

	// ErrInvalidWorkerID is returned when the worker ID is outside [0, 31].
	ErrInvalidWorkerID = errors.New("snowflake: worker ID must be between 0 and 31")

	// ErrClockRegression is returned when the wall clock moves backwards.
	// The call is never retried silently: a rolled-back clock can mean a
	// serious environment fault and retrying could emit duplicate IDs.
	ErrClockRegression = errors.New("snowflake: clock moved backwards")
)

// Generator produces time-ordered unique IDs for one (datacenter, worker) pair.
// It is safe for concurrent use.
type Generator struct {
	mu            sync.Mutex
	datacenterID  int64
	workerID      int64
	sequence      int64
	lastTimestamp int64

	// now is swappable in tests to simulate clock behavior.
	now func() int64
}

// NewGenerator creates a generator for the given node coordinates.
func NewGenerator(datacenterID, workerID int64) (*Generator, error) {
	if datacenterID < 0 || datacenterID > maxDatacenterID {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDatacenterID, datacenterID)
	}

	if workerID < 0 || workerID > maxWorkerID {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorkerID, workerID)
	}

	return &Generator{
		datacenterID:  datacenterID,
		workerID:      workerID,
		lastTimestamp: -1,
		now:           func() int64 { return time.Now().UnixMilli() },
	}, nil
}

// Next returns the next unique ID.
func (g *Generator) Next() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	timestamp := g.now()

	if timestamp < g.lastTimestamp {
		return 0, fmt.Errorf("%w: last=%d current=%d", ErrClockRegression, g.lastTimestamp, timestamp)
	}

	if timestamp == g.lastTimestamp {
		g.sequence++
		if g.sequence > maxSequence {
			// This millisecond is exhausted (4096 IDs). Wait for the
			// clock to advance instead of reusing a sequence slot.
			timestamp = g.waitNextMillis(g.lastTimestamp)
			g.sequence = 0
		}
	} else {
		g.sequence = 0
	}

	g.lastTimestamp = timestamp

	id := ((timestamp - epoch) << timestampShift) |
		(g.datacenterID << datacenterShift) |
		(g.workerID << workerShift) |
		g.sequence

	return id, nil
}

func (g *Generator) waitNextMillis(last int64) int64 {
	timestamp := g.now()
	for timestamp <= last {
		time.Sleep(50 * time.Microsecond)
		timestamp = g.now()
	}

	return timestamp
}

// Decompose splits an ID back into its timestamp, datacenter, worker and
// sequence components. The timestamp is Unix milliseconds.
func Decompose(id int64) (timestamp, datacenterID, workerID, sequence int64) {
	sequence = id & maxSequence
	workerID = (id >> workerShift) & maxWorkerID
	datacenterID = (id >> datacenterShift) & maxDatacenterID
	timestamp = (id >> timestampShift) + epoch

	return timestamp, datacenterID, workerID, sequence
}

// Time returns the creation time embedded in an ID.
func Time(id int64) time.Time {
	timestamp, _, _, _ := Decompose(id)

	return time.UnixMilli(timestamp)
}
