package uhj

/*------------------------------------------------------------------
 *
 * Purpose:	Map an input file's channel count and (optional) channel
 *		map onto a known speaker layout or B-format, per spec §4.7.
 *
 *----------------------------------------------------------------*/

// ChanMapID is a sound-file-library channel-position identifier, as reported
// by its channel-map query. The values are this package's own enumeration,
// not WAVEFORMATEXTENSIBLE bit numbers (internal/audioio translates mask bits
// into them); only the handful of positions this encoder recognizes exist.
type ChanMapID int

const (
	MapFrontLeft ChanMapID = iota
	MapFrontRight
	MapFrontCenter
	MapLFE
	MapRearLeft
	MapRearRight
	MapSideLeft
	MapSideRight
	MapTopFrontLeft
	MapTopFrontRight
	MapTopRearLeft
	MapTopRearRight
	MapAmbisonicW
	MapAmbisonicX
	MapAmbisonicY
	MapAmbisonicZ
)

// DetectLayout determines the speaker layout (or B-format-ness) of an input
// file from its channel count and, if the file carries one, an explicit
// channel map. ok is false when the combination is not recognized and the
// file should be skipped.
func DetectLayout(channels int, chanMap []ChanMapID) (Layout, bool) {
	if len(chanMap) > 0 {
		return detectFromMap(channels, chanMap)
	}
	return detectFallback(channels)
}

func detectFromMap(channels int, chanMap []ChanMapID) (Layout, bool) {
	switch channels {
	case 2:
		return LayoutStereo, true
	case 3:
		if isBFormat2D(chanMap) {
			return LayoutBFormat2D, true
		}
		return 0, false
	case 4:
		if isBFormat3D(chanMap) {
			return LayoutBFormat3D, true
		}
		return LayoutQuad, true
	case 6:
		if hasAll(chanMap, MapRearLeft, MapRearRight) {
			return Layout51Rear, true
		}
		if hasAll(chanMap, MapSideLeft, MapSideRight) {
			return Layout51, true
		}
		return 0, false
	case 8:
		return Layout71, true
	case 12:
		return Layout714, true
	default:
		return 0, false
	}
}

func detectFallback(channels int) (Layout, bool) {
	switch channels {
	case 2:
		return LayoutStereo, true
	case 6:
		return Layout51, true
	case 8:
		return Layout71, true
	default:
		return 0, false
	}
}

func isBFormat2D(m []ChanMapID) bool {
	return hasAll(m, MapAmbisonicW, MapAmbisonicX, MapAmbisonicY) && !has(m, MapAmbisonicZ)
}

func isBFormat3D(m []ChanMapID) bool {
	return hasAll(m, MapAmbisonicW, MapAmbisonicX, MapAmbisonicY, MapAmbisonicZ)
}

func has(m []ChanMapID, id ChanMapID) bool {
	for _, v := range m {
		if v == id {
			return true
		}
	}
	return false
}

func hasAll(m []ChanMapID, ids ...ChanMapID) bool {
	for _, id := range ids {
		if !has(m, id) {
			return false
		}
	}
	return true
}
