package util

import (
	"log"
)

// ErrorLogger may be used to report errors that occur asynchronously,
// such as a retried attempt against the block store, where the error
// cannot be returned to the caller directly.
type ErrorLogger interface {
	Log(err error)
}

type defaultErrorLogger struct{}

func (l defaultErrorLogger) Log(err error) {
	log.Print(err)
}

// DefaultErrorLogger writes errors using Go's standard logging package.
var DefaultErrorLogger ErrorLogger = defaultErrorLogger{}
