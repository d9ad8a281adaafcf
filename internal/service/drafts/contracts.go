package drafts

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// IDGenerator генератор идентификаторов записей обуви
type IDGenerator func() string
