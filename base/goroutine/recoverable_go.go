package goroutine

import (
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/base/utils"
)

type PanicEvent struct {
	Panic interface{}
	Stack []byte
}

type RecoverableGoOptions struct {
	name           string
	beforeStart    func()
	afterEnded     func()
	afterRecovered func(panic interface{}, stack []byte)
}

type RecoverableGoOptionsFunc = func(*RecoverableGoOptions)

func getRecoverableGoOptions(fns ...RecoverableGoOptionsFunc) RecoverableGoOptions {
	opts := RecoverableGoOptions{}
	for _, fn := range fns {
		fn(&opts)
	}
	return opts
}

// WithName tags the panic log with the goroutine name
func WithName(name string) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) {
		options.name = name
	}
}

func WithBeforeStart(f func()) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) {
		options.beforeStart = f
	}
}

func WithAfterEnded(f func()) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) {
		options.afterEnded = f
	}
}

func WithAfterRecovered(f func(panic interface{}, stack []byte)) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) {
		options.afterRecovered = f
	}
}

// RecoverableGo runs f in a new goroutine. The returned channel is closed when
// f returns normally, or receives one PanicEvent when f panicked.
func RecoverableGo(f func(), fns ...RecoverableGoOptionsFunc) chan *PanicEvent {
	opts := getRecoverableGoOptions(fns...)

	panicChan := make(chan *PanicEvent, 1)

	go func() {
		defer func() {
			if opts.afterEnded != nil {
				opts.afterEnded()
			}

			if p := recover(); p != nil {
				stack := utils.Stack(3)

				log.Log().WithFields(log.Fields{
					"name":  opts.name,
					"err":   p,
					"stack": string(stack),
				}).Error("panic")

				if opts.afterRecovered != nil {
					opts.afterRecovered(p, stack)
				}

				panicChan <- &PanicEvent{p, stack}
			} else {
				close(panicChan)
			}
		}()

		if opts.beforeStart != nil {
			opts.beforeStart()
		}

		f()
	}()

	return panicChan
}
