package painter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Stdout is the sink name that selects standard output.
const Stdout = "-"

// Sink receives a finished artifact.
type Sink interface {
	Write(data []byte) error
	String() string
}

// StdoutSink writes to a stream, terminating the artifact with a newline.
type StdoutSink struct {
	W io.Writer
}

func (s StdoutSink) Write(data []byte) error {
	if _, err := s.W.Write(data); err != nil {
		return err
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		_, err := io.WriteString(s.W, "\n")
		return err
	}
	return nil
}

func (StdoutSink) String() string { return "stdout" }

// FileSink writes to a named file, replacing its contents.
type FileSink struct {
	Path string
}

func (s FileSink) Write(data []byte) error {
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.Path, err)
	}
	return nil
}

func (s FileSink) String() string { return s.Path }

// NewSink selects stdout for "-" or an empty name and a file otherwise.
func NewSink(name string, stdout io.Writer) Sink {
	if name == "" || name == Stdout {
		return StdoutSink{W: stdout}
	}
	return FileSink{Path: name}
}

// Deliver writes data to sink. The logger in ctx records a content hash.
func Deliver(ctx context.Context, sink Sink, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger := log.FromContext(ctx)
	sum := sha256.Sum256(data)
	logger.Debug("data hash", "sha256", hex.EncodeToString(sum[:8]), "bytes", len(data))
	if _, ok := sink.(FileSink); ok {
		logger.Info("writing", "file", sink.String())
	}
	return sink.Write(data)
}
