package engine

import (
	"context"
	"time"

	. "github.com/Drew-CodeRGV/TheWirelessMonitor/utils/log"
)

const GracefulRetryDelay = 3

// RunModuleWithGracefulRestart keeps a module alive across failures. A nil
// return is a clean exit, any error restarts the module after a short delay.
func RunModuleWithGracefulRestart(ctx context.Context, module *Module) {
	for {
		err := (*module).RunModule(ctx)
		if err == nil {
			break
		}
		Log.Errorf("Module %s exited with error %v, retry in %d seconds",
			(*module).Name(), err, GracefulRetryDelay)

		// Wait for a small amount of time and restart.
		time.Sleep(GracefulRetryDelay * time.Second)
	}
}

type Module interface {
	// RunModule contains the customized logic of the module. It takes in a
	// context object by which its lifecycle is managed. Return error if
	// encountered any error during execution.
	RunModule(ctx context.Context) error

	// Return name of the Module. Uniquely identifies the module instance.
	Name() string

	// Shutdown releases resources held beyond the run context, e.g. open
	// listeners. Called once during engine shutdown, after cancellation.
	Shutdown()
}
