package led

import (
	"fmt"
	"sort"

	"github.com/sweeney/taiko-sensor/internal/hit"
)

// Region is one pad's inclusive range of physical LEDs.
type Region struct {
	Start, End int
}

// Config describes the strip layout: one region and color per pad.
// Regions must not overlap — two pads fighting over shared pixels is a
// configuration error, not a runtime condition.
type Config struct {
	Regions [hit.NumButtons]Region
	Colors  [hit.NumButtons]Color
}

// DefaultConfig matches the original 33-LED drum ring.
func DefaultConfig() Config {
	return Config{
		Regions: [hit.NumButtons]Region{{0, 8}, {9, 20}, {21, 32}, {33, 32}},
		Colors:  DefaultColors,
	}
}

// Validate checks region sanity. An empty region (End < Start) is allowed
// so deployments with fewer lit zones can park a pad off-strip.
func (c Config) Validate() error {
	type span struct {
		start, end, pad int
	}
	var spans []span
	for i, r := range c.Regions {
		if r.End < r.Start {
			continue // empty region
		}
		if r.Start < 0 {
			return fmt.Errorf("pad %d: region start %d negative", i, r.Start)
		}
		spans = append(spans, span{r.Start, r.End, i})
	}
	sort.Slice(spans, func(a, b int) bool { return spans[a].start < spans[b].start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start <= spans[i-1].end {
			return fmt.Errorf("pad %d region [%d,%d] overlaps pad %d region [%d,%d]",
				spans[i].pad, spans[i].start, spans[i].end,
				spans[i-1].pad, spans[i-1].start, spans[i-1].end)
		}
	}
	return nil
}

// Driver mirrors pad press state onto the strip.
type Driver struct {
	strip Strip
	cfg   Config
	lit   [hit.NumButtons]bool
	muted bool
	dirty bool
}

// NewDriver creates a Driver and stages the all-off state. The first
// Flush darkens the strip regardless of what the MCU had latched.
func NewDriver(strip Strip, cfg Config) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Driver{strip: strip, cfg: cfg}
	for i := range d.lit {
		d.stage(i)
	}
	d.dirty = true
	return d, nil
}

// SetButtonState records a pad's lit state and stages its region. A call
// that does not change the state stages nothing and leaves the dirty flag
// alone, so redundant updates never cost a transmission.
func (d *Driver) SetButtonState(button int, pressed bool) {
	if d.lit[button] == pressed {
		return
	}
	d.lit[button] = pressed
	d.stage(button)
	d.dirty = true
}

// SetMuted darkens the strip without losing pad state; un-muting restores
// whatever is currently lit.
func (d *Driver) SetMuted(muted bool) {
	if d.muted == muted {
		return
	}
	d.muted = muted
	for i := range d.lit {
		d.stage(i)
	}
	d.dirty = true
}

// Muted reports whether the strip is muted.
func (d *Driver) Muted() bool {
	return d.muted
}

// Lit reports a pad's current lit state.
func (d *Driver) Lit(button int) bool {
	return d.lit[button]
}

// Flush transmits staged state if anything changed since the last flush,
// and clears the dirty flag. A clean driver flushes nothing.
func (d *Driver) Flush() error {
	if !d.dirty {
		return nil
	}
	if err := d.strip.Transmit(); err != nil {
		return err
	}
	d.dirty = false
	return nil
}

func (d *Driver) stage(button int) {
	r := d.cfg.Regions[button]
	if r.End < r.Start {
		return
	}
	c := Off
	if d.lit[button] && !d.muted {
		c = d.cfg.Colors[button]
	}
	d.strip.SetRegion(r.Start, r.End, c)
}
