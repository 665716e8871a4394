package mazeprotocol

import "time"

// Command words sent from the client to the server. Every command word is
// exactly four upper-case letters.
const (
	CmdUser   = "USER"
	CmdLevel  = "LEVL"
	CmdWidth  = "GETW"
	CmdHeight = "GETH"
	CmdX      = "GETX"
	CmdY      = "GETY"
	CmdWhat   = "WHAT"
	CmdMaze   = "MAZE"
	CmdWait   = "WAIT"
	CmdMove   = "MOVE"
)

// Response markers sent from the server to the client.
const (
	// DoneLine is the complete line acknowledging a void command.
	DoneLine = "DONE"

	// DataPrefix precedes one or more space-separated integers.
	DataPrefix = "DATA "

	// NopePrefix precedes the reason a move was rejected.
	NopePrefix = "NOPE "

	// OverPrefix precedes the final report of a finished session.
	OverPrefix = "OVER "

	// overWord is OVER without a report.
	overWord = "OVER"
)

const (
	// DefaultAddress is where the game server listens unless told otherwise.
	DefaultAddress = "localhost:4000"

	// MaxLineLength is the maximum accepted length of a received line in
	// bytes. MAZE responses for large levels are the longest lines.
	MaxLineLength = 1 << 20

	// MaxCells is the largest maze a MAZE line can describe: every value
	// takes at least one digit and one separator.
	MaxCells = MaxLineLength / 2

	// DefaultCommandTimeout bounds the wait for a response to any command
	// except WAIT.
	DefaultCommandTimeout = 30 * time.Second

	// DefaultWaitTimeout bounds the WAIT command. Zero means no limit: WAIT
	// returns only when somebody starts the game on the server side.
	DefaultWaitTimeout time.Duration = 0

	// DefaultDialTimeout bounds establishing the TCP connection.
	DefaultDialTimeout = 5 * time.Second
)
