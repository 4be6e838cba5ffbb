package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger provides functionality for logging.
type Logger struct {
	*zerolog.Logger
}

// Options represents options for logger.
type Options struct {
	Level  string
	File   string
	Pretty bool
	Output io.Writer
}

func newFileWriter(filename string) io.Writer {
	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    10,
		MaxBackups: 3,
		Compress:   true,
	}
}

// New returns a new instance of logger.
func New(opts Options) (*Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	writers := []io.Writer{out}

	if opts.Pretty {
		writers[0] = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Stamp}
	}

	if opts.File != "" {
		writers = append(writers, newFileWriter(opts.File))
	}

	level := zerolog.InfoLevel

	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}

		level = parsed
	}

	zeroLogger := zerolog.New(io.MultiWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{&zeroLogger}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	l := zerolog.Nop()
	return &Logger{&l}
}
