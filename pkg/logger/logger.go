package logger

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	*logrus.Logger
}

var logger *Logger

func Init() *Logger {
	if logger != nil {
		return logger
	}

	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			filename := strings.Split(f.File, "/")
			return fmt.Sprintf("%s:%d", filename[len(filename)-1], f.Line), ""
		},
	})

	log.SetReportCaller(true)
	log.SetLevel(logrus.InfoLevel)

	logger = &Logger{log}
	return logger
}

func Get() *Logger {
	if logger == nil {
		return Init()
	}
	return logger
}

func SetLevel(level string) {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	Get().SetLevel(logLevel)
}

// WithFieldsCtx merges request-scoped identifiers from the context into
// the given fields. Request handlers put request_id there; offline
// commands get a plain entry.
func WithFieldsCtx(ctx context.Context, fields logrus.Fields) *logrus.Entry {
	if ctx != nil {
		if rid, ok := ctx.Value("request_id").(string); ok && rid != "" {
			fields["request_id"] = rid
		}
	}
	return Get().WithFields(fields)
}

// kvFields turns a trailing ("key", value, "key", value...) list into
// logrus fields. A dangling key is kept under "extra".
func kvFields(kv []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kv[i])
		}
		fields[key] = kv[i+1]
	}
	if len(kv)%2 == 1 {
		fields["extra"] = kv[len(kv)-1]
	}
	return fields
}

func Debug(ctx context.Context, msg string, kv ...interface{}) {
	WithFieldsCtx(ctx, kvFields(kv)).Debug(msg)
}

func Info(ctx context.Context, msg string, kv ...interface{}) {
	WithFieldsCtx(ctx, kvFields(kv)).Info(msg)
}

func Warn(ctx context.Context, msg string, kv ...interface{}) {
	WithFieldsCtx(ctx, kvFields(kv)).Warn(msg)
}

func Error(ctx context.Context, msg string, kv ...interface{}) {
	WithFieldsCtx(ctx, kvFields(kv)).Error(msg)
}

func Fatal(ctx context.Context, msg string, kv ...interface{}) {
	WithFieldsCtx(ctx, kvFields(kv)).Fatal(msg)
}

func WithField(key string, value interface{}) *logrus.Entry {
	return Get().WithField(key, value)
}

func WithFields(fields logrus.Fields) *logrus.Entry {
	return Get().WithFields(fields)
}

func WithError(err error) *logrus.Entry {
	return Get().WithError(err)
}
