// Package mazeprotocol provides a Go client for the maze game server and
// its line-oriented text protocol.
//
// # Protocol Overview
//
// The protocol is newline-delimited ASCII over a TCP connection. The client
// sends one command line and the server answers with exactly one line; the
// two never interleave and commands are never pipelined.
//
//	Request (client -> server):  <CMD4> [arguments...]\n
//	Acknowledgement:             DONE\n
//	Numeric data:                DATA <int> [<int>...]\n
//	Rejected action:             NOPE <reason>\n
//	Session over:                OVER <report>\n
//
// OVER can answer any command. It ends the session and the server closes
// the connection afterwards.
//
// # Basic Usage
//
// Dial the server, which also registers the user and selects the level:
//
//	client, err := mazeprotocol.Dial(ctx, mazeprotocol.DefaultAddress, "alice", "level1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	w, _ := client.Width()
//	h, _ := client.Height()
//	fmt.Printf("maze is %dx%d\n", w, h)
//
// # Navigation
//
// FinishWith waits for the game to start and then keeps asking the decision
// function for the next direction until the server ends the game or a move
// is rejected:
//
//	report, err := client.FinishWith(func() mazeprotocol.Direction {
//	    return mazeprotocol.Up
//	})
//
// # Errors
//
// Errors fall into three tiers:
//
//   - *ConnectionError and *ProtocolError are fatal. The session is unusable
//     afterwards and every further call returns the same error.
//   - *GameOverError means the server ended the session. It carries the
//     final report and is not a failure.
//   - *MoveRejectedError means a single move was refused. TryMove reports it
//     as a false result instead.
//
// # Thread Safety
//
// A Client is not safe for concurrent use. Geometry memoization and the
// last-move-error field are unsynchronised, and the protocol itself allows
// only one outstanding command.
package mazeprotocol
