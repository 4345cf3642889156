package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// wavFormat holds WAV file format information
type wavFormat struct {
	AudioFormat int
	SampleRate  int
	Channels    int
	BitDepth    int
}

const wavFormatPCM = 1

var errNotWAV = errors.New("wav: not a RIFF/WAVE file")

// parseWAV parses a WAV file and returns the format and the raw data chunk
func parseWAV(data []byte) (*wavFormat, []byte, error) {
	reader := bytes.NewReader(data)

	var header [12]byte
	if _, err := io.ReadFull(reader, header[:]); err != nil {
		return nil, nil, errNotWAV
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, nil, errNotWAV
	}

	var format *wavFormat
	for {
		var chunkID [4]byte
		if _, err := io.ReadFull(reader, chunkID[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil, errors.New("wav: missing data chunk")
			}
			return nil, nil, fmt.Errorf("wav: read chunk id: %w", err)
		}

		var chunkSize uint32
		if err := binary.Read(reader, binary.LittleEndian, &chunkSize); err != nil {
			return nil, nil, fmt.Errorf("wav: read chunk size: %w", err)
		}

		switch string(chunkID[:]) {
		case "fmt ":
			if chunkSize < 16 {
				return nil, nil, fmt.Errorf("wav: fmt chunk too short (%d bytes)", chunkSize)
			}
			var raw struct {
				AudioFormat   uint16
				NumChannels   uint16
				SampleRate    uint32
				ByteRate      uint32
				BlockAlign    uint16
				BitsPerSample uint16
			}
			if err := binary.Read(reader, binary.LittleEndian, &raw); err != nil {
				return nil, nil, fmt.Errorf("wav: read fmt chunk: %w", err)
			}
			format = &wavFormat{
				AudioFormat: int(raw.AudioFormat),
				SampleRate:  int(raw.SampleRate),
				Channels:    int(raw.NumChannels),
				BitDepth:    int(raw.BitsPerSample),
			}
			// Skip any extra format bytes
			if err := skip(reader, int64(chunkSize)-16); err != nil {
				return nil, nil, err
			}
		case "data":
			if format == nil {
				return nil, nil, errors.New("wav: data chunk before fmt chunk")
			}
			size := int(chunkSize)
			if size > reader.Len() {
				// Truncated files are common; play what is there.
				size = reader.Len()
			}
			audioData := make([]byte, size)
			if _, err := io.ReadFull(reader, audioData); err != nil {
				return nil, nil, fmt.Errorf("wav: read data: %w", err)
			}
			return format, audioData, nil
		default:
			// Skip unknown chunk, chunks are word aligned
			if err := skip(reader, int64(chunkSize)+int64(chunkSize&1)); err != nil {
				return nil, nil, err
			}
		}
	}
}

func skip(r *bytes.Reader, n int64) error {
	if n <= 0 {
		return nil
	}
	if _, err := r.Seek(n, io.SeekCurrent); err != nil {
		return fmt.Errorf("wav: skip chunk: %w", err)
	}
	return nil
}

// decodeWAV converts a PCM WAV file to the engine output format: 16-bit
// little-endian stereo at SampleRate.
func decodeWAV(data []byte) ([]byte, error) {
	format, raw, err := parseWAV(data)
	if err != nil {
		return nil, err
	}
	if format.AudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("wav: unsupported encoding %d", format.AudioFormat)
	}
	if format.Channels < 1 {
		return nil, fmt.Errorf("wav: invalid channel count %d", format.Channels)
	}
	if format.SampleRate <= 0 {
		return nil, fmt.Errorf("wav: invalid sample rate %d", format.SampleRate)
	}

	var sample func(b []byte) int16
	switch format.BitDepth {
	case 8:
		sample = func(b []byte) int16 { return int16(int(b[0])-128) << 8 }
	case 16:
		sample = func(b []byte) int16 { return int16(binary.LittleEndian.Uint16(b)) }
	case 24:
		sample = func(b []byte) int16 { return int16(uint16(b[1]) | uint16(b[2])<<8) }
	default:
		return nil, fmt.Errorf("wav: unsupported bit depth %d", format.BitDepth)
	}

	width := format.BitDepth / 8
	frameSize := width * format.Channels
	frames := len(raw) / frameSize
	if frames == 0 {
		return nil, errors.New("wav: no audio frames")
	}

	stereo := make([]int16, frames*Channels)
	for i := 0; i < frames; i++ {
		frame := raw[i*frameSize:]
		left := sample(frame)
		right := left
		if format.Channels > 1 {
			right = sample(frame[width:])
		}
		stereo[i*2] = left
		stereo[i*2+1] = right
	}

	if format.SampleRate != SampleRate {
		stereo = resample(stereo, format.SampleRate, SampleRate)
	}
	return encodePCM(stereo), nil
}

// resample converts interleaved stereo samples with linear interpolation.
func resample(in []int16, from, to int) []int16 {
	inFrames := len(in) / 2
	outFrames := int(int64(inFrames) * int64(to) / int64(from))
	if outFrames < 1 {
		outFrames = 1
	}
	out := make([]int16, outFrames*2)
	ratio := float64(from) / float64(to)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * ratio
		j := int(pos)
		frac := pos - float64(j)
		next := j + 1
		if next >= inFrames {
			next = inFrames - 1
		}
		if j >= inFrames {
			j = inFrames - 1
		}
		for ch := 0; ch < 2; ch++ {
			a := float64(in[j*2+ch])
			b := float64(in[next*2+ch])
			out[i*2+ch] = int16(a + (b-a)*frac)
		}
	}
	return out
}

func encodePCM(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}
