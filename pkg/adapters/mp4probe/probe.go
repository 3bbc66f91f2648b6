// Package mp4probe reads video track metadata (codec, dimensions, frame
// count, frame rate) from the MP4 container index without decoding.
package mp4probe

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
)

var (
	// ErrNotMP4 is returned when the data cannot be parsed as an MP4 file.
	ErrNotMP4 = errors.New("mp4probe: not an MP4 file")

	// ErrNoVideoTrack is returned when the file has no video track.
	ErrNoVideoTrack = errors.New("mp4probe: no video track found")
)

// Codec represents a video codec type.
type Codec string

const (
	CodecH264    Codec = "h264"
	CodecHEVC    Codec = "hevc"
	CodecAV1     Codec = "av1"
	CodecVP9     Codec = "vp9"
	CodecMPEG4   Codec = "mpeg4"
	CodecUnknown Codec = "unknown"
)

// Info describes the first video track of an MP4 file.
type Info struct {
	Codec      Codec
	Width      int
	Height     int
	FrameCount int
	FPS        float64 // 0 when the track has no duration
	Timescale  uint32
	Fragmented bool
}

// ProbeFile probes an MP4 file on disk.
func ProbeFile(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ProbeReader(f)
}

// ProbeBytes probes MP4 data held in memory.
func ProbeBytes(data []byte) (Info, error) {
	return ProbeReader(bytes.NewReader(data))
}

// ProbeReader probes MP4 data from an io.ReadSeeker.
// Sample data in mdat boxes is skipped, not read, so memory use does not
// grow with the file size. The reader is rewound afterwards.
func ProbeReader(reader io.ReadSeeker) (info Info, err error) {
	defer func() {
		// mp4ff may panic on truncated box trees
		if r := recover(); r != nil {
			info, err = Info{}, fmt.Errorf("%w: %v", ErrNotMP4, r)
		}
	}()

	mp4File, err := mp4.DecodeFile(reader, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrNotMP4, err)
	}

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return Info{}, fmt.Errorf("seek: %w", err)
	}

	if mp4File.IsFragmented() {
		return probeFragmented(mp4File)
	}
	return probeProgressive(mp4File)
}

func probeProgressive(mp4File *mp4.File) (Info, error) {
	if mp4File.Moov == nil {
		return Info{}, ErrNoVideoTrack
	}
	trak := findVideoTrack(mp4File.Moov.Traks)
	if trak == nil {
		return Info{}, ErrNoVideoTrack
	}

	info := describeTrack(trak)
	stbl := trak.Mdia.Minf.Stbl
	if stbl.Stsz != nil {
		info.FrameCount = int(stbl.Stsz.SampleNumber)
	}

	var duration uint64
	if stbl.Stts != nil {
		for i, count := range stbl.Stts.SampleCount {
			duration += uint64(count) * uint64(stbl.Stts.SampleTimeDelta[i])
		}
	}
	if duration == 0 && trak.Mdia.Mdhd != nil {
		duration = trak.Mdia.Mdhd.Duration
	}
	info.FPS = frameRate(info.FrameCount, duration, info.Timescale)

	return info, nil
}

func probeFragmented(mp4File *mp4.File) (Info, error) {
	if mp4File.Init == nil || mp4File.Init.Moov == nil {
		return Info{}, ErrNoVideoTrack
	}
	moov := mp4File.Init.Moov
	trak := findVideoTrack(moov.Traks)
	if trak == nil {
		return Info{}, ErrNoVideoTrack
	}

	info := describeTrack(trak)
	info.Fragmented = true

	trackID := trak.Tkhd.TrackID
	var trex *mp4.TrexBox
	if moov.Mvex != nil {
		for _, t := range moov.Mvex.Trexs {
			if t.TrackID == trackID {
				trex = t
				break
			}
		}
	}

	// Counts come from the trun tables; mdat payloads are never loaded.
	var duration uint64
	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd == nil || traf.Tfhd.TrackID != trackID {
					continue
				}
				for _, trun := range traf.Truns {
					duration += trun.AddSampleDefaultValues(traf.Tfhd, trex)
					info.FrameCount += int(trun.SampleCount())
				}
			}
		}
	}
	info.FPS = frameRate(info.FrameCount, duration, info.Timescale)

	return info, nil
}

func findVideoTrack(traks []*mp4.TrakBox) *mp4.TrakBox {
	for _, trak := range traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
			continue
		}
		if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
			continue
		}
		return trak
	}
	return nil
}

func describeTrack(trak *mp4.TrakBox) Info {
	info := Info{Codec: CodecUnknown, Timescale: 1000}
	if trak.Mdia.Mdhd != nil && trak.Mdia.Mdhd.Timescale > 0 {
		info.Timescale = trak.Mdia.Mdhd.Timescale
	}

	stsd := trak.Mdia.Minf.Stbl.Stsd
	if stsd == nil {
		return info
	}
	for _, child := range stsd.Children {
		info.Codec = codecFromSampleEntry(child.Type())
		if vse, ok := child.(*mp4.VisualSampleEntryBox); ok {
			info.Width = int(vse.Width)
			info.Height = int(vse.Height)
		}
		if info.Codec != CodecUnknown {
			break
		}
	}
	return info
}

func codecFromSampleEntry(boxType string) Codec {
	switch boxType {
	case "avc1", "avc3":
		return CodecH264
	case "hvc1", "hev1":
		return CodecHEVC
	case "av01":
		return CodecAV1
	case "vp09":
		return CodecVP9
	case "mp4v":
		return CodecMPEG4
	default:
		return CodecUnknown
	}
}

func frameRate(frames int, duration uint64, timescale uint32) float64 {
	if frames == 0 || duration == 0 || timescale == 0 {
		return 0
	}
	return float64(frames) * float64(timescale) / float64(duration)
}
