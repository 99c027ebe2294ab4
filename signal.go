package main

import (
	"os"
	"os/signal"
	"syscall"
)

var interruptChannel chan os.Signal

var addHandlerChannel = make(chan func())

var interruptHandlersDone = make(chan struct{})

var signals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
}

// mainInterruptHandler runs the registered callbacks in reverse order of
// registration on the first signal.
func mainInterruptHandler() {
	var interruptCallbacks []func()
	invokeCallbacks := func() {
		for i := range interruptCallbacks {
			idx := len(interruptCallbacks) - 1 - i
			interruptCallbacks[idx]()
		}
		close(interruptHandlersDone)
	}

	for {
		select {
		case sig := <-interruptChannel:
			log.Infof("Received signal (%s).  Shutting down...", sig)
			invokeCallbacks()
			return
		case handler := <-addHandlerChannel:
			interruptCallbacks = append(interruptCallbacks, handler)
		}
	}
}

// addInterruptHandler registers handler to run on SIGINT or SIGTERM.
func addInterruptHandler(handler func()) {
	if interruptChannel == nil {
		interruptChannel = make(chan os.Signal, 1)
		signal.Notify(interruptChannel, signals...)
		go mainInterruptHandler()
	}

	addHandlerChannel <- handler
}
