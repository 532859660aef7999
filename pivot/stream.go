package pivot

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/klauspost/compress/s2"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/metrigo/codec"
	"github.com/hupe1980/metrigo/core"
)

// streamFormat is the format tag carried by every pivot stream header.
const streamFormat = "metrigo-pivots"

// streamVersion is the current pivot stream format version.
const streamVersion = 1

// maxStreamRecordSize caps a single encoded pivot record. A larger length
// prefix indicates a corrupt or foreign stream.
const maxStreamRecordSize = 16 << 20

var (
	// ErrStreamExhausted is returned when the external pivot stream ends
	// before the requested number of pivots was consumed.
	ErrStreamExhausted = errors.New("pivot: pivot stream exhausted")

	// ErrBadStreamHeader indicates an unreadable or foreign stream header.
	ErrBadStreamHeader = errors.New("pivot: bad pivot stream header")
)

// ObjectDecoder turns one encoded stream record back into a metric object.
type ObjectDecoder func(c codec.Codec, data []byte) (core.Object, error)

// streamHeader is the uncompressed first line of a pivot stream. It makes
// the file self-describing: readers select codec and compression by name.
type streamHeader struct {
	Format      string `json:"format"`
	Version     int    `json:"version"`
	Codec       string `json:"codec"`
	Compression string `json:"compression"`
}

// StreamReader reads pivot objects from a pivot stream in order.
type StreamReader struct {
	codec  codec.Codec
	decode ObjectDecoder
	body   *bufio.Reader
	buf    []byte
}

// NewStreamReader opens a pivot stream. The header line is read eagerly so
// format errors surface before the first pivot is requested.
func NewStreamReader(r io.Reader, decode ObjectDecoder) (*StreamReader, error) {
	if decode == nil {
		return nil, fmt.Errorf("%w: object decoder is required", ErrBadStreamHeader)
	}
	br := bufio.NewReader(r)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadStreamHeader, err)
	}

	var hdr streamHeader
	if err := (codec.JSON{}).Unmarshal(line, &hdr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadStreamHeader, err)
	}
	if hdr.Format != streamFormat {
		return nil, fmt.Errorf("%w: unexpected format %q", ErrBadStreamHeader, hdr.Format)
	}
	if hdr.Version != streamVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadStreamHeader, hdr.Version)
	}
	c, ok := codec.ByName(hdr.Codec)
	if !ok {
		return nil, fmt.Errorf("%w: unknown codec %q", ErrBadStreamHeader, hdr.Codec)
	}

	var body io.Reader
	switch hdr.Compression {
	case "", "none":
		body = br
	case "s2":
		body = s2.NewReader(br)
	case "lz4":
		body = lz4.NewReader(br)
	default:
		return nil, fmt.Errorf("%w: unknown compression %q", ErrBadStreamHeader, hdr.Compression)
	}

	return &StreamReader{
		codec:  c,
		decode: decode,
		body:   bufio.NewReader(body),
	}, nil
}

// Next reads and decodes the next pivot record. It returns io.EOF at the
// end of the stream.
func (sr *StreamReader) Next() (core.Object, error) {
	size, err := binary.ReadUvarint(sr.body)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("pivot: reading record length: %w", err)
	}
	if size > maxStreamRecordSize {
		return nil, fmt.Errorf("pivot: record of %d bytes exceeds limit", size)
	}
	if uint64(cap(sr.buf)) < size {
		sr.buf = make([]byte, size)
	}
	buf := sr.buf[:size]
	if _, err := io.ReadFull(sr.body, buf); err != nil {
		return nil, fmt.Errorf("pivot: reading record: %w", err)
	}
	return sr.decode(sr.codec, buf)
}

// StreamWriterOptions contains configuration options for pivot stream
// writers.
type StreamWriterOptions struct {
	// Codec encodes the pivot records. If nil, codec.Default is used.
	Codec codec.Codec

	// Compression names the body compression: "none", "s2" or "lz4".
	// Empty means "none".
	Compression string
}

// StreamWriter writes a pivot stream that StreamReader can consume.
type StreamWriter struct {
	codec   codec.Codec
	body    io.Writer
	closers []io.Closer
	lenBuf  [binary.MaxVarintLen64]byte
}

// NewStreamWriter writes the self-describing header and prepares the
// (optionally compressed) record body.
func NewStreamWriter(w io.Writer, optFns ...func(o *StreamWriterOptions)) (*StreamWriter, error) {
	opts := StreamWriterOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	if opts.Compression == "" {
		opts.Compression = "none"
	}

	hdr := streamHeader{
		Format:      streamFormat,
		Version:     streamVersion,
		Codec:       opts.Codec.Name(),
		Compression: opts.Compression,
	}
	line, err := (codec.JSON{}).Marshal(hdr)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(append(line, '\n')); err != nil {
		return nil, err
	}

	sw := &StreamWriter{codec: opts.Codec}
	switch opts.Compression {
	case "none":
		sw.body = w
	case "s2":
		zw := s2.NewWriter(w)
		sw.body = zw
		sw.closers = append(sw.closers, zw)
	case "lz4":
		zw := lz4.NewWriter(w)
		sw.body = zw
		sw.closers = append(sw.closers, zw)
	default:
		return nil, fmt.Errorf("pivot: unknown compression %q", opts.Compression)
	}
	return sw, nil
}

// Append encodes v and appends it as the next pivot record.
func (sw *StreamWriter) Append(v any) error {
	data, err := sw.codec.Marshal(v)
	if err != nil {
		return err
	}
	n := binary.PutUvarint(sw.lenBuf[:], uint64(len(data)))
	if _, err := sw.body.Write(sw.lenBuf[:n]); err != nil {
		return err
	}
	_, err = sw.body.Write(data)
	return err
}

// Close flushes any compression buffers. It does not close the underlying
// writer.
func (sw *StreamWriter) Close() error {
	for _, c := range sw.closers {
		if err := c.Close(); err != nil {
			return err
		}
	}
	return nil
}

// Compile-time check to ensure Stream satisfies the Chooser interface.
var _ Chooser = (*Stream)(nil)

// StreamOptions contains configuration options for the stream chooser.
type StreamOptions struct {
	// Logger receives selection diagnostics. If nil, logging is disabled.
	Logger *slog.Logger
}

// Stream supplies pivots from a pre-ordered external stream, e.g. a pivot
// file prepared offline. Selection simply consumes the next records from
// the stream; the sample providers are ignored entirely.
type Stream struct {
	*base
	reader *StreamReader
}

// NewStream creates a stream-sequence pivot chooser reading from sr.
func NewStream(sr *StreamReader, optFns ...func(o *StreamOptions)) *Stream {
	opts := StreamOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	c := &Stream{
		base:   newBase(opts.Logger),
		reader: sr,
	}
	c.sel = c.selectPivots
	return c
}

func (c *Stream) selectPivots(ctx context.Context, count int, _ iter.Seq[core.Object]) error {
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		obj, err := c.reader.Next()
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: got %d of %d pivots", ErrStreamExhausted, i, count)
		}
		if err != nil {
			return err
		}
		c.addPivot(obj)
	}
	return nil
}
