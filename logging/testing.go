package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// NewTestLogger returns a new logger that outputs Debug+ logs through the
// test's own log stream.
func NewTestLogger(tb testing.TB) Logger {
	logger, _ := NewObservedTestLogger(tb)
	return logger
}

// NewObservedTestLogger is like NewTestLogger but also saves logs to an in
// memory observer so tests can assert on what was logged.
func NewObservedTestLogger(tb testing.TB) (Logger, *observer.ObservedLogs) {
	atom := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	testLogger := zaptest.NewLogger(tb, zaptest.Level(atom), zaptest.WrapOptions(zap.AddCaller()))
	observerCore, observedLogs := observer.New(zap.LevelEnablerFunc(zapcore.DebugLevel.Enabled))
	logger := zap.New(zapcore.NewTee(testLogger.Core(), observerCore))
	return &impl{
		name:  "",
		level: atom,
		sugar: logger.Sugar(),
	}, observedLogs
}
