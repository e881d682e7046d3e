// Package process provides lifecycle management for engine child processes.
//
// A Child wraps an exec.Cmd started with all three standard streams piped.
// It tracks the process from start to exit, records the exit code, and
// exposes a Done channel for exit notification:
//
//	cmd := exec.Command("gnugo", "--mode", "gtp")
//	child, err := process.Start(cmd)
//	if err != nil {
//	    return err
//	}
//
//	<-child.Done()
//	fmt.Printf("exit code: %d\n", child.ExitCode())
//
// The package makes no attempt to restart exited processes; that decision
// belongs to the caller.
//
// Child is safe for concurrent use.
package process
