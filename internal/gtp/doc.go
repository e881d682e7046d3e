// Package gtp implements a client for the Go Text Protocol.
//
// The client mediates between callers (the web layer, the terminal UI)
// and an external engine process that speaks GTP over standard
// input/output. It is built from three cooperating parts:
//
//   - process supervision: the Client owns the engine subprocess, spawns
//     it with fixed arguments and fully piped stdio, enforces a warm-up
//     delay before accepting commands, and observes its exit.
//   - command sequencing: the Transport accepts command strings from
//     arbitrary concurrent callers and keeps exactly one request on the
//     wire at a time, in FIFO submission order. GTP responses carry no
//     reliable request identifier, so strict one-at-a-time ordering is
//     what pairs requests with responses.
//   - response framing: raw output is buffered and split into frames on
//     the blank-line delimiter, then classified as success ("="),
//     rejection ("?"), or protocol violation.
//
// # Quick Start
//
//	client := gtp.NewClient("/usr/bin/engine", "engine.cfg", "model.bin")
//	if err := client.Start(ctx); err != nil {
//	    return err
//	}
//	defer client.Quit()
//
//	if err := client.BoardSize(ctx, 19); err != nil {
//	    return err
//	}
//	move, err := client.GenMove(ctx, gtp.Black)
//
// # Failure Model
//
// A spawn failure surfaces as a SpawnError from Start. An unexpected
// engine exit fails every pending and queued request with an ExitError;
// the client does not restart the engine. A "?" response becomes an
// EngineError on that one request. Quit bounds its graceful-shutdown
// attempt and then kills the process unconditionally.
//
// # Concurrency
//
// Client and Transport are safe for concurrent use. Send blocks only
// the calling goroutine; submissions from any number of goroutines are
// serialized and resolve in submission order.
package gtp
