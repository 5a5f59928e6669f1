package core

// Logger is any service that can log application events.
// expected args: error | map[string]interface{} | LogPerson
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// LogPerson identifies the caller an event is reported for.
type LogPerson struct {
	ID       string
	Username string
}
