package logger

import "fmt"

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// Logger defines the interface for logging
type Logger interface {
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// StdLogger writes log lines to stdout
type StdLogger struct{}

func NewStdLogger() *StdLogger {
	return &StdLogger{}
}

// Info logs an info message
func (sl *StdLogger) Info(msg string, fields ...Field) {
	sl.print("INFO", msg, fields)
}

// Warn logs a warning message
func (sl *StdLogger) Warn(msg string, fields ...Field) {
	sl.print("WARN", msg, fields)
}

// Error logs an error message
func (sl *StdLogger) Error(msg string, fields ...Field) {
	sl.print("ERROR", msg, fields)
}

func (sl *StdLogger) print(level, msg string, fields []Field) {
	fmt.Printf("[%s] %s", level, msg)
	if len(fields) > 0 {
		fmt.Print(" [")
		for i, f := range fields {
			if i > 0 {
				fmt.Print(", ")
			}
			fmt.Printf("%s=%v", f.Key, f.Value)
		}
		fmt.Print("]")
	}
	fmt.Println()
}

// NopLogger discards everything. Used by tests that do not assert on logs.
type NopLogger struct{}

func NewNopLogger() *NopLogger { return &NopLogger{} }

func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
