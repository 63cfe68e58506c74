package backend

/*------------------------------------------------------------------
 *
 * Purpose:	A small tagged-sum parser for the server's POD "choice"
 *		values (spec §9 Design Notes: "avoid duplicating the switch
 *		at each call site").
 *
 * Description:	The server reports a format property as one of three
 *		choice kinds: a single fixed value (None), a continuous
 *		Range (default/min/max), or an Enum (default followed by
 *		alternatives). Node Proxy's rate/position policies are
 *		expressed once here instead of per call site.
 *
 *----------------------------------------------------------------*/

// PodChoiceKind is the shape of a POD choice value.
type PodChoiceKind int

const (
	PodNone PodChoiceKind = iota
	PodRange
	PodEnum
)

// PodIntChoice is a parsed integer-valued POD choice (used for sample rate).
type PodIntChoice struct {
	Kind         PodChoiceKind
	Default      int
	Min, Max     int   // valid for PodRange
	Alternatives []int // valid for PodEnum, excludes Default
}

// ResolveRate applies the Node Proxy rate policy (spec §4.3): prefer the
// default clamped into [minRate, maxRate]; for an Enum whose default falls
// outside the range, take the first alternative inside the range.
func (c PodIntChoice) ResolveRate(minRate, maxRate int) (int, bool) {
	switch c.Kind {
	case PodNone:
		return clampInt(c.Default, minRate, maxRate), true
	case PodRange:
		return clampInt(c.Default, minRate, maxRate), true
	case PodEnum:
		if c.Default >= minRate && c.Default <= maxRate {
			return c.Default, true
		}
		for _, alt := range c.Alternatives {
			if alt >= minRate && alt <= maxRate {
				return alt, true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// channelPositionTemplate associates a Channels layout with the set of
// channel-position IDs (spa-style position enums, represented here as plain
// strings for readability) it requires, ordered from largest to smallest so
// the first match wins (spec §4.3: "7.1 ⊃ 6.1 ⊃ 5.1 ⊃ 5.1-rear ⊃ quad ⊃
// stereo ⊃ mono").
type channelPositionTemplate struct {
	layout    Channels
	positions []string
}

var channelTemplates = []channelPositionTemplate{
	{ChannelsX71, []string{"FL", "FR", "FC", "LFE", "RL", "RR", "SL", "SR"}},
	{ChannelsX61, []string{"FL", "FR", "FC", "LFE", "RC", "SL", "SR"}},
	{ChannelsX51, []string{"FL", "FR", "FC", "LFE", "SL", "SR"}},
	{ChannelsX51, []string{"FL", "FR", "FC", "LFE", "RL", "RR"}}, // 5.1-rear
	{ChannelsQuad, []string{"FL", "FR", "RL", "RR"}},
	{ChannelsStereo, []string{"FL", "FR"}},
	{ChannelsMono, []string{"MONO"}},
}

// ResolvePosition matches a device's reported channel-position array against
// the known templates, largest first, and falls back to a bare channel count
// when no position array is available (spec §4.3).
func ResolvePosition(positions []string, fallbackCount int) Channels {
	if len(positions) > 0 {
		set := make(map[string]struct{}, len(positions))
		for _, p := range positions {
			set[p] = struct{}{}
		}
		for _, tpl := range channelTemplates {
			if containsAll(set, tpl.positions) {
				return tpl.layout
			}
		}
	}
	if fallbackCount >= 2 {
		return ChannelsStereo
	}
	return ChannelsMono
}

func containsAll(set map[string]struct{}, want []string) bool {
	for _, w := range want {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}
