package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// FormatType format for logging
type FormatType string

const (
	// FormatTypeText logging as text
	FormatTypeText FormatType = "text"
	// FormatTypeJSON JSON format
	FormatTypeJSON FormatType = "json"
)

// UnmarshalText implements `encoding.TextUnmarshaler`.
func (f *FormatType) UnmarshalText(data []byte) error {
	switch v := FormatType(strings.ToLower(string(data))); v {
	case FormatTypeText, FormatTypeJSON:
		*f = v

		return nil
	}

	return fmt.Errorf("%s is not a valid log format, use one of [text, json]", string(data))
}

type Config struct {
	Level     string     `yaml:"level" default:"info"`
	Format    FormatType `yaml:"format" default:"text"`
	Timestamp bool       `yaml:"timestamp" default:"true"`
	Hostname  bool       `yaml:"hostname" default:"false"`
}

// Logger is the global logging instance
// nolint:gochecknoglobals
var logger *logrus.Logger

// nolint:gochecknoinits
func init() {
	logger = logrus.New()

	ConfigureLogger(Config{
		Level:     "info",
		Format:    FormatTypeText,
		Timestamp: true,
	})
}

// Log returns the global logger
func Log() *logrus.Logger {
	return logger
}

// PrefixedLog return the global logger with prefix
func PrefixedLog(prefix string) *logrus.Entry {
	return logger.WithField("prefix", prefix)
}

// EscapeInput removes line breaks from input
func EscapeInput(input string) string {
	result := strings.ReplaceAll(input, "\n", "")
	result = strings.ReplaceAll(result, "\r", "")

	return result
}

// ConfigureLogger applies configuration to the global logger
func ConfigureLogger(lc Config) {
	if level, err := logrus.ParseLevel(lc.Level); err != nil {
		logger.Fatalf("invalid log level %s %v", lc.Level, err)
	} else {
		logger.SetLevel(level)
	}

	var baseFormatter logrus.Formatter

	switch lc.Format {
	case FormatTypeJSON:
		baseFormatter = &logrus.JSONFormatter{DisableTimestamp: !lc.Timestamp}

	default:
		logFormatter := &prefixed.TextFormatter{
			TimestampFormat:  "2006-01-02 15:04:05",
			FullTimestamp:    true,
			ForceFormatting:  true,
			ForceColors:      false,
			QuoteEmptyFields: true,
			DisableTimestamp: !lc.Timestamp,
		}

		logFormatter.SetColorScheme(&prefixed.ColorScheme{
			PrefixStyle:    "blue+b",
			TimestampStyle: "white+h",
		})

		baseFormatter = logFormatter
	}

	var newFormatter logrus.Formatter

	if hn, err := getHostname(hostnameFile); err == nil && lc.Hostname {
		newFormatter = hostnameFormatter{
			hostname:  hn,
			formatter: baseFormatter,
		}
	} else {
		newFormatter = baseFormatter
	}

	logger.SetFormatter(newFormatter)
}

// Silence disables the logger output
func Silence() {
	logger.Out = io.Discard
}

type hostnameFormatter struct {
	hostname  string
	formatter logrus.Formatter
}

func (l hostnameFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	newentry := *entry
	newentry.Data = make(logrus.Fields, len(entry.Data)+1)

	for k, v := range entry.Data {
		newentry.Data[k] = v
	}

	newentry.Data["hostname"] = l.hostname

	return l.formatter.Format(&newentry)
}

const hostnameFile = "/etc/hostname"

func getHostname(location string) (string, error) {
	if hn, err := os.ReadFile(location); err == nil {
		return strings.TrimSpace(string(hn)), nil
	}

	if hn, err := os.Hostname(); err == nil {
		return hn, nil
	}

	return "", errors.New("hostname couldn't be determined")
}
