// Package logging points the standard logger at a per-run log file while
// keeping console output, the way the batch commands expect.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Setup creates a timestamped log file under dir and tees the standard
// logger to it and stdout. It returns the log file path and a restore
// function that closes the file and puts the logger back on stderr.
func Setup(dir string) (string, func(), error) {
	path := filepath.Join(dir, fmt.Sprintf("log_edfmark_%s.log", time.Now().Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create log file: %w", err)
	}

	log.SetOutput(io.MultiWriter(os.Stdout, f))
	log.SetFlags(log.Ldate | log.Ltime)

	restore := func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}
	return path, restore, nil
}
