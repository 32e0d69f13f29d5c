// Package logutil provides logging utilities.
package logutil

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	out     = io.Discard
	loggers []*log.Logger
	mutex   sync.Mutex
)

// GetLogger gets a logger with a prefix. Lines carry no timestamp. Loggers
// write to io.Discard until an output is set with SetOutput or SetOutputFile.
func GetLogger(prefix string) *log.Logger {
	mutex.Lock()
	defer mutex.Unlock()
	logger := log.New(out, prefix, 0)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects the output of all loggers obtained with GetLogger to
// the new io.Writer. If the old output was a file opened by SetOutputFile, it
// is closed.
func SetOutput(newout io.Writer) {
	mutex.Lock()
	defer mutex.Unlock()
	if f, ok := out.(*os.File); ok && f != newout {
		f.Close()
	}
	out = newout
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
}

// SetOutputFile redirects the output of all loggers obtained with GetLogger to
// the named file. If the file exists, logs are appended to it. If fname is an
// empty string, logging is turned off.
func SetOutputFile(fname string) error {
	if fname == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	SetOutput(file)
	return nil
}
