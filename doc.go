// Package opusdec implements a native Go decoder for the Opus audio codec
// (RFC 6716): a range-coded entropy stream driving two interleaved
// sub-codecs, SILK for speech and CELT for music, plus a hybrid mode that
// sums both.
//
// A Decoder is constructed once per logical stream with a fixed output
// sample rate and channel count, and decodes packets one at a time into a
// caller-provided PCM buffer. It is not safe for concurrent use: callers
// needing to decode multiple streams concurrently should construct one
// Decoder per stream.
//
// This package decodes only. Encoding, transcoding to non-Opus formats,
// packet loss concealment beyond silence insertion, and FEC/LBRR audio
// reconstruction are out of scope; see the package-level non-goals in the
// project's SPEC_FULL.md.
package opusdec
