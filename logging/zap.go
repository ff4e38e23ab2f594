package logging

import "go.uber.org/zap"

type zapWrapper struct {
	logger *zap.Logger
}

func (l zapWrapper) WithField(key string, value interface{}) Interface {
	return zapWrapper{l.logger.With(zap.Any(key, value))}
}

func (l zapWrapper) WithError(err error) Interface {
	return zapWrapper{l.logger.With(zap.Error(err))}
}

// skip keeps the caller pointing at the code that logged, not at this wrapper
func (l zapWrapper) skip() *zap.Logger { return l.logger.WithOptions(zap.AddCallerSkip(1)) }

func (l zapWrapper) Debug(msg string) { l.skip().Debug(msg) }
func (l zapWrapper) Info(msg string)  { l.skip().Info(msg) }
func (l zapWrapper) Warn(msg string)  { l.skip().Warn(msg) }
func (l zapWrapper) Error(msg string) { l.skip().Error(msg) }
func (l zapWrapper) Fatal(msg string) { l.skip().Fatal(msg) }

func (l zapWrapper) Debugf(format string, args ...interface{}) { l.skip().Debug(fmtMsg(format, args)) }
func (l zapWrapper) Infof(format string, args ...interface{})  { l.skip().Info(fmtMsg(format, args)) }
func (l zapWrapper) Warnf(format string, args ...interface{})  { l.skip().Warn(fmtMsg(format, args)) }
func (l zapWrapper) Errorf(format string, args ...interface{}) { l.skip().Error(fmtMsg(format, args)) }
func (l zapWrapper) Fatalf(format string, args ...interface{}) { l.skip().Fatal(fmtMsg(format, args)) }

// ForZap wraps a zap logger.
func ForZap(logger *zap.Logger) Interface {
	return zapWrapper{logger: logger}
}
