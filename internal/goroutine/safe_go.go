package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/gigzone/backend/internal/logger"
)

// SafeGo запускает фоновую горутину и гасит panic, чтобы сбой фоновой
// задачи не ронял процесс.
func SafeGo(fn func()) {
	go func() {
		defer logPanic()
		fn()
	}()
}

// SafeGoWithContext — вариант SafeGo для задач, принимающих контекст.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer logPanic()
		fn(ctx)
	}()
}

func logPanic() {
	if r := recover(); r != nil {
		logger.WithComponent("goroutine").
			WithField("stack", string(debug.Stack())).
			Errorf("panic в фоновой горутине: %v", r)
	}
}
