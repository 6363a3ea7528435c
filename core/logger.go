package core

// Logger is any service that can log messages at the usual levels.
// Extra args may carry an error, a user.User (reported as the acting person)
// or any value worth dumping along with the message.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
