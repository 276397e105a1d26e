// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package genericconf

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var globalFileLogger = bufferedFileLogger{}

// bufferedFileLogger drops records instead of blocking when more than
// BufSize writes are in flight.
type bufferedFileLogger struct {
	writerMutex sync.Mutex
	writer      *lumberjack.Logger

	cancel context.CancelFunc

	writeStartPing chan struct{}
	writeDonePing  chan struct{}
}

func (l *bufferedFileLogger) Write(p []byte) (n int, err error) {
	select {
	case l.writeStartPing <- struct{}{}:
		l.writerMutex.Lock()
		_, _ = l.writer.Write(p)
		l.writerMutex.Unlock()
		l.writeDonePing <- struct{}{}
	default:
	}
	return len(p), nil
}

// open is not threadsafe
func (l *bufferedFileLogger) open(config *FileLoggingConfig, filename string) io.Writer {
	_ = l.close()
	l.writer = &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		LocalTime:  config.LocalTime,
		Compress:   config.Compress,
	}
	l.writeStartPing = make(chan struct{}, config.BufSize)
	l.writeDonePing = make(chan struct{}, config.BufSize)
	writeStartPing := l.writeStartPing
	writeDonePing := l.writeDonePing
	var consumerCtx context.Context
	consumerCtx, l.cancel = context.WithCancel(context.Background())
	go func() {
		for {
			select {
			case <-writeStartPing:
				<-writeDonePing
			case <-consumerCtx.Done():
				return
			}
		}
	}()
	return l
}

// close is not threadsafe
func (l *bufferedFileLogger) close() error {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	if l.writer != nil {
		if err := l.writer.Close(); err != nil {
			return err
		}
		l.writer = nil
	}
	return nil
}

// InitLog installs the default logger: stderr, optionally tee'd into a
// rotated log file. It is not threadsafe.
func InitLog(logType string, logLevel string, fileLoggingConfig *FileLoggingConfig, pathResolver func(string) string) error {
	if err := globalFileLogger.close(); err != nil {
		return fmt.Errorf("failed to close file writer: %w", err)
	}
	var output io.Writer = os.Stderr
	if fileLoggingConfig.Enable {
		output = io.MultiWriter(
			os.Stderr,
			// on overflow records are dropped silently
			globalFileLogger.open(fileLoggingConfig, pathResolver(fileLoggingConfig.File)),
		)
	}
	handler, err := HandlerFromLogType(logType, output)
	if err != nil {
		return fmt.Errorf("error parsing log type when creating handler: %w", err)
	}
	slogLevel, err := ToSlogLevel(logLevel)
	if err != nil {
		return fmt.Errorf("error parsing log level: %w", err)
	}

	glogger := log.NewGlogHandler(handler)
	glogger.Verbosity(slogLevel)
	log.SetDefault(log.NewLogger(glogger))
	return nil
}

// CloseLog flushes and closes the file logger, if any.
func CloseLog() error {
	return globalFileLogger.close()
}
