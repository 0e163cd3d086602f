package utils

import "log"

// InitLogging initializes logging
func InitLogging(level string) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	_ = level // level-based filtering is left to the log sink
}
