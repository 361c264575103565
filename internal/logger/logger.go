package logger

import (
	"github.com/sirupsen/logrus"
)

// Log — глобальный структурированный логгер приложения.
var Log *logrus.Logger

// Init создаёт логгер с указанным уровнем. По умолчанию пишем JSON,
// удобный для агрегации. Неизвестный уровень трактуется как info.
func Init(level string) {
	Log = logrus.New()
	Log.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
}

// SetTextFormatter переключает логгер на человекочитаемый текстовый
// формат. Используется в development.
func SetTextFormatter() {
	if Log == nil {
		return
	}
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// WithComponent возвращает entry с полем component. Сервисы помечают
// им свои записи, чтобы логи фильтровались по подсистеме.
func WithComponent(name string) *logrus.Entry {
	if Log == nil {
		Log = logrus.New()
	}
	return Log.WithField("component", name)
}
