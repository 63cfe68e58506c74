package audioio

/*------------------------------------------------------------------
 *
 * Purpose:	Input Adapter — read an arbitrary sound file and expose
 *		its samples as per-channel float64 slices plus whatever
 *		channel map the sound-file library can report.
 *
 * Description:	File I/O itself is an out-of-scope external collaborator
 *		(spec §1); this package is the thin seam between that
 *		collaborator (mewkiz/flac, go-audio/wav) and the DSP core
 *		in internal/uhj, which only ever sees plain float64 slices
 *		and a uhj.ChanMapID slice.
 *
 *----------------------------------------------------------------*/

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/meta"
	"github.com/pkg/errors"

	"github.com/telematixsw/uhjstream/internal/uhj"
)

// Source is a decoded input file: all samples resident in memory, one slice
// per channel. Batch encoding tools don't need streaming decode to keep a
// bounded memory footprint for the file sizes this encoder targets.
type Source struct {
	SampleRate int
	Channels   [][]float64
	ChanMap    []uhj.ChanMapID // nil if the file carries none
}

// OpenSource reads path and decodes it fully into memory, dispatching on
// file extension to the FLAC or WAV decoder.
func OpenSource(path string) (*Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".flac":
		return openFLAC(path)
	case ".wav", ".wave":
		return openWAV(path)
	default:
		return nil, errors.Errorf("audioio: unsupported input extension %q", filepath.Ext(path))
	}
}

func openFLAC(path string) (*Source, error) {
	stream, err := flac.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "audioio: open FLAC")
	}
	defer stream.Close()

	nchan := int(stream.Info.ChannelCount)
	src := &Source{
		SampleRate: int(stream.Info.SampleRate),
		Channels:   make([][]float64, nchan),
		ChanMap:    flacChannelMap(stream.Blocks),
	}
	scale := 1.0 / float64(int64(1)<<(stream.Info.BitsPerSample-1))

	for {
		frame, err := stream.ParseNext()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(err, "audioio: decode FLAC frame")
		}
		for c := 0; c < nchan && c < len(frame.Subframes); c++ {
			sub := frame.Subframes[c]
			for _, s := range sub.Samples {
				src.Channels[c] = append(src.Channels[c], float64(s)*scale)
			}
		}
	}
	return src, nil
}

// flacChannelMap looks for a WAVEFORMATEXTENSIBLE-style channel mask or an
// ambisonic marker in the stream's Vorbis comments; many FLAC encoders carry
// this as an app-defined tag rather than a first-class metadata block.
func flacChannelMap(blocks []*meta.Block) []uhj.ChanMapID {
	for _, block := range blocks {
		vc, ok := block.Body.(*meta.VorbisComment)
		if !ok {
			continue
		}
		for _, entry := range vc.Entries {
			switch strings.ToUpper(entry.Name) {
			case "AMBISONIC_WXYZ":
				return []uhj.ChanMapID{uhj.MapAmbisonicW, uhj.MapAmbisonicX, uhj.MapAmbisonicY, uhj.MapAmbisonicZ}
			case "AMBISONIC_WXY":
				return []uhj.ChanMapID{uhj.MapAmbisonicW, uhj.MapAmbisonicX, uhj.MapAmbisonicY}
			case "WAVEFORMATEXTENSIBLE_CHANNEL_MASK":
				mask, err := strconv.ParseUint(strings.TrimPrefix(entry.Value, "0x"), 16, 32)
				if err != nil {
					continue
				}
				return decodeChannelMask(uint32(mask))
			}
		}
	}
	return nil
}

// wfxMaskBits gives the ChanMapID for each WAVEFORMATEXTENSIBLE
// speaker-position bit this encoder recognizes, keyed by bit number. Bits
// with no ChanMapID (front left/right of center, back center, top center,
// top front center, top back center) are ignored.
var wfxMaskBits = map[uint]uhj.ChanMapID{
	0: uhj.MapFrontLeft, 1: uhj.MapFrontRight, 2: uhj.MapFrontCenter, 3: uhj.MapLFE,
	4: uhj.MapRearLeft, 5: uhj.MapRearRight,
	9: uhj.MapSideLeft, 10: uhj.MapSideRight,
	12: uhj.MapTopFrontLeft, 14: uhj.MapTopFrontRight,
	15: uhj.MapTopRearLeft, 17: uhj.MapTopRearRight,
}

func decodeChannelMask(mask uint32) []uhj.ChanMapID {
	var out []uhj.ChanMapID
	for bit := uint(0); bit < 32; bit++ {
		if id, ok := wfxMaskBits[bit]; ok && mask&(1<<bit) != 0 {
			out = append(out, id)
		}
	}
	return out
}

func openWAV(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "audioio: open WAV")
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, errors.New("audioio: not a valid WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "audioio: decode WAV")
	}

	nchan := buf.Format.NumChannels
	src := &Source{
		SampleRate: buf.Format.SampleRate,
		Channels:   make([][]float64, nchan),
	}
	maxVal := float64(int(1) << (buf.SourceBitDepth - 1))
	for c := 0; c < nchan; c++ {
		src.Channels[c] = make([]float64, 0, len(buf.Data)/nchan)
	}
	for i, s := range buf.Data {
		c := i % nchan
		src.Channels[c] = append(src.Channels[c], float64(s)/maxVal)
	}
	// WAV (non-extensible) carries no channel map in this minimal adapter;
	// callers fall back to channel-count-based layout detection, per spec §4.7.
	return src, nil
}
