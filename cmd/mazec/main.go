// =============================================================================
// main.go - mazec CLI Entry Point
// =============================================================================
//
// mazec is a command-line client for the maze game server. It logs in with a
// user name and level code, then either plays the level with a built-in
// strategy, lets a human walk it from the keyboard, prints the map, or opens
// a raw console where protocol commands are typed by hand.
//
// Usage:
//
//	mazec run  --user alice --level abc123               Play with the wall follower
//	mazec run  --strategy fixed:right                    Walk right until something happens
//	mazec play --user alice --level abc123               Walk with W/A/S/D
//	mazec map  --user alice --level abc123               Print the maze
//	mazec raw  --user alice --level abc123               Type protocol commands
//
// Settings come from $HOME/.mazec.yaml (or --config) and can be overridden
// with flags. See config.go for the file format.
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/protab/mazec/mazeprotocol"
)

// =============================================================================
// Version Information
// =============================================================================

const (
	// version is the current version of the CLI.
	version = "0.3.0"

	// appName is the application name.
	appName = "mazec"
)

// fullTitle returns the application name with version.
func fullTitle() string {
	return fmt.Sprintf("%s v%s", appName, version)
}

// =============================================================================
// Exit Codes
// =============================================================================

// GO CONCEPT: Exit Codes
// ----------------------
// os.Exit ends the process immediately with the given status. Deferred
// functions do NOT run, so main calls it only after everything else has
// returned. Scripts running mazec can tell a broken connection (3) from a
// bad configuration (2) without parsing the message.
const (
	exitOK        = 0
	exitFailure   = 1
	exitConfig    = 2
	exitTransport = 3
)

// exitCode maps an error returned by a command to the process status.
func exitCode(err error) int {
	var validation ValidationError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &validation):
		return exitConfig
	case mazeprotocol.IsFatal(err):
		return exitTransport
	default:
		return exitFailure
	}
}

// printError prints a message to stderr with the "Error:" prefix.
func printError(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}

// =============================================================================
// Main Entry Point
// =============================================================================

func main() {
	root := newRootCmd(os.Stdin)
	if err := root.Execute(); err != nil {
		printError(err.Error())
		os.Exit(exitCode(err))
	}
}
