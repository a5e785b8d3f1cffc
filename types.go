package accounts

import (
	"fmt"
	"strings"
	"time"
)

// Logger is the logging sink used across the package. Args are key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds the options handlers and codecs need
type Config interface {
	GetSecretKey() string
	GetPasswordSalt() string
	GetTokenExpiration() time.Duration
	GetLinkBaseURL() string
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Print("[ERR] ACCOUNTS " + line(msg, args))
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Print("[INF] ACCOUNTS " + line(msg, args))
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Print("[DBG] ACCOUNTS " + line(msg, args))
}

func line(msg string, args []any) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
	}
	if len(args)%2 == 1 {
		fmt.Fprintf(&b, " !BADKEY=%v", args[len(args)-1])
	}
	b.WriteString("\n")
	return b.String()
}

func ensureLogger(l Logger) Logger {
	if l == nil {
		return defLogger{}
	}
	return l
}
