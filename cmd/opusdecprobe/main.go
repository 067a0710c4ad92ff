// Package main implements opusdecprobe, a bare-bones program that reads
// a file of length-prefixed Opus packets and decodes it to a WAV file.
//
// It exists to exercise the opusdec package end to end from the command
// line; it is not a container demuxer (it does not parse Ogg or WebM)
// and its output is not part of this module's correctness surface.
package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/pflag"

	"github.com/kestrelaudio/opusdec"
	"github.com/kestrelaudio/opusdec/internal/log"
)

// Logging related defaults, matching the rotation sizes ausocean-av's
// cmd binaries use for their own file logs.
const (
	logMaxSizeMB   = 100
	logMaxBackups  = 5
	logMaxAgeDays  = 28
)

func main() {
	inPath := pflag.StringP("in", "i", "", "path to a file of length-prefixed Opus packets")
	outPath := pflag.StringP("out", "o", "out.wav", "path to write decoded WAV output")
	rate := pflag.IntP("rate", "r", 48000, "decoder output sample rate")
	channels := pflag.IntP("channels", "c", 2, "decoder output channel count")
	logPath := pflag.String("log", "", "optional path to a rotating log file")
	debug := pflag.Bool("debug", false, "enable debug logging")
	pflag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "opusdecprobe: -in is required")
		os.Exit(2)
	}

	logger := log.New(log.Config{
		Path:       *logPath,
		MaxSizeMB:  logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAgeDays: logMaxAgeDays,
		Debug:      *debug,
		Extra:      os.Stderr,
	})
	defer logger.Sync()

	if err := run(*inPath, *outPath, *rate, *channels, logger); err != nil {
		logger.Error("opusdecprobe failed", "error", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string, rate, channels int, logger *log.Logger) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	sampleRate, err := opusdec.SampleRateFromHz(rate)
	if err != nil {
		return err
	}
	dec, err := opusdec.NewDecoder(sampleRate, opusdec.Channels(channels), opusdec.WithLogger(logger))
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := wav.NewEncoder(out, rate, 16, channels, 1)
	defer enc.Close()

	intBuf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		SourceBitDepth: 16,
	}

	pcm := make([]int16, rate*channels) // 1 second scratch buffer, longer than any packet's audio
	packets := 0
	for {
		packet, err := readPacket(in)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		n, err := dec.DecodeInt16(packet, pcm)
		if err != nil {
			logger.Warn("dropping packet", "index", packets, "error", err)
			packets++
			continue
		}

		intBuf.Data = intBuf.Data[:0]
		for i := 0; i < n*channels; i++ {
			intBuf.Data = append(intBuf.Data, int(pcm[i]))
		}
		if err := enc.Write(intBuf); err != nil {
			return err
		}
		packets++
	}

	logger.Info("decode complete", "packets", packets, "out", outPath)
	return nil
}

// readPacket reads one length-prefixed packet: a big-endian uint32
// byte count followed by that many bytes of Opus packet data.
func readPacket(r io.Reader) ([]byte, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
