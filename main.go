package main

import (
	"log"
	"os"
	"strings"

	"androidsnap/cmd"
	"androidsnap/pkg/logging"
	"androidsnap/pkg/version"

	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	if _, err := logging.Setup(false, "androidsnap", version.Version); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
	}

	// The root command may rebuild the logger for --debug, so look it up afterwards.
	if err := cmd.Execute(); err != nil {
		logging.Logger.Fatal("androidsnap execution failed", zap.Error(err))
	}

	// Check if stderr is a terminal or a regular file before attempting to sync.
	if term.IsTerminal(int(os.Stderr.Fd())) || isRegularFile(os.Stderr) {
		if syncErr := logging.Logger.Sync(); syncErr != nil {
			lowerErr := strings.ToLower(syncErr.Error())
			if !strings.Contains(lowerErr, "invalid argument") {
				log.Printf("Logger sync failed: %v", syncErr)
			}
		}
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
