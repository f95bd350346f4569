// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport provides the HTTP client for the planner backend's chunk streams.
package transport

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"time"

	"github.com/jeranaias/planwise-tui/internal/chunk"
)

// =============================================================================
// STREAM READER
// =============================================================================

// StreamReader handles line-by-line decoding of an NDJSON chunk stream.
type StreamReader struct {
	reader     *bufio.Reader
	chunkCount int
	startTime  time.Time
}

// NewStreamReader creates a new stream reader from an io.Reader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{
		reader:    bufio.NewReader(r),
		startTime: time.Now(),
	}
}

// Process reads the stream and calls fn for each decoded chunk, in arrival
// order. Blocks until the stream ends, the context is cancelled, or fn
// returns an error.
func (s *StreamReader) Process(ctx context.Context, fn StreamFunc) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			c, err := s.readChunk()
			if err != nil {
				if err == io.EOF {
					return nil
				}
				return &ClientError{Type: ErrTypeStream, Message: "stream read failed", Cause: err}
			}

			if c == nil {
				continue // Blank or malformed line
			}

			s.chunkCount++
			if err := fn(*c); err != nil {
				return err
			}
		}
	}
}

// readChunk reads and decodes a single line from the stream. Returns
// (nil, nil) for lines that carry no chunk.
func (s *StreamReader) readChunk() (*chunk.Chunk, error) {
	line, err := s.reader.ReadBytes('\n')
	if err != nil {
		if err == io.EOF && len(bytes.TrimSpace(line)) == 0 {
			return nil, io.EOF
		}
		if len(line) == 0 {
			return nil, err
		}
		// Process the trailing line even on EOF; the next read returns EOF.
	}

	line = bytes.TrimSpace(line)
	// SSE-framed backends prefix payload lines with "data: ".
	line = bytes.TrimPrefix(line, []byte("data: "))
	if len(line) == 0 {
		return nil, nil
	}

	c, decErr := chunk.Decode(line)
	if decErr != nil {
		// Skip malformed lines
		return nil, nil
	}

	return &c, nil
}

// ChunkCount returns the number of chunks delivered so far.
func (s *StreamReader) ChunkCount() int {
	return s.chunkCount
}

// Elapsed returns the time since the stream was opened.
func (s *StreamReader) Elapsed() time.Duration {
	return time.Since(s.startTime)
}
