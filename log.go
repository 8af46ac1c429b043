package sgemm

import "go.uber.org/zap"

var logger *zap.Logger

func init() {
	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		panic(err)
	}
}

// Logger returns the current package logger.
func Logger() *zap.Logger {
	return logger
}

// SetDevelopmentLogger switches to a human-readable debug logger.
func SetDevelopmentLogger() {
	var err error
	logger, err = zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
}
