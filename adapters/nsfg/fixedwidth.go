package nsfg

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"nsfgstats/domain/dataset"
	"nsfgstats/internal/errors"
)

// ctxCheckInterval is how many records are read between context checks.
const ctxCheckInterval = 1024

var gzipMagic = []byte{0x1f, 0x8b}

// MaybeGunzip returns a reader that decompresses r when it starts with the
// gzip magic number and passes it through otherwise. The returned closer
// releases the decompressor; it does not close r.
func MaybeGunzip(r io.Reader) (io.Reader, io.Closer, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, nil, errors.Wrap(err, "peeking data header")
	}
	if !bytes.Equal(head, gzipMagic) {
		return br, nopCloser{}, nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening gzip stream")
	}
	return zr, zr, nil
}

// ReadFixedWidth reads fixed-width records laid out by dict into a Frame.
// Blank numeric fields become NaN, text fields are trimmed. Short records
// are padded with blanks.
func ReadFixedWidth(ctx context.Context, dict *Dictionary, r io.Reader) (*dataset.Frame, error) {
	numeric := make([][]float64, len(dict.Variables))
	text := make([][]string, len(dict.Variables))

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		for i, v := range dict.Variables {
			field := strings.TrimSpace(slice(line, v.Start, v.End))
			if !v.Numeric() {
				text[i] = append(text[i], field)
				continue
			}
			value, err := parseNumber(field)
			if err != nil {
				return nil, errors.DataFormat(lineNo, "variable "+v.Name+": cannot parse "+strconv.Quote(field))
			}
			numeric[i] = append(numeric[i], value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading fixed-width data")
	}

	frame := dataset.NewFrame()
	for i, v := range dict.Variables {
		var err error
		if v.Numeric() {
			col := numeric[i]
			if col == nil {
				col = []float64{}
			}
			err = frame.SetNumeric(v.Name, col)
		} else {
			col := text[i]
			if col == nil {
				col = []string{}
			}
			err = frame.SetText(v.Name, col)
		}
		if err != nil {
			return nil, err
		}
	}
	return frame, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func slice(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	if end < 0 || end > len(line) {
		end = len(line)
	}
	return line[start:end]
}

func parseNumber(field string) (float64, error) {
	if field == "" || field == "." {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(field, 64)
}
