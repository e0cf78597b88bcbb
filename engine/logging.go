// logging.go - structured warning log backed by go-logger
//
// (c) 2026 pdumpfs contributors
//
// Licensing Terms: GPLv2
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package engine

import (
	"github.com/opencoff/go-logger"
)

// runLogger records recoverable per-entry warnings to cfg.LogFile, alongside
// the exact-format summary line appendLogLine appends on success. Built the
// same way the teacher's testsuite opens its own log (testsuite/run.go):
// one NewLogger per run, closed when the run is done.
type runLogger struct {
	log logger.Logger
}

func newRunLogger(path string) (*runLogger, error) {
	log, err := logger.NewLogger(path, logger.LOG_DEBUG, "pdumpfs",
		logger.Ldate|logger.Ltime|logger.Lmicroseconds|logger.Lfileloc)
	if err != nil {
		return nil, err
	}
	return &runLogger{log: log}, nil
}

func (rl *runLogger) warn(format string, args ...interface{}) {
	if rl == nil {
		return
	}
	rl.log.Info("warning: "+format, args...)
}

func (rl *runLogger) Close() error {
	if rl == nil {
		return nil
	}
	return rl.log.Close()
}
