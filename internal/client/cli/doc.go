// Package cli provides the interactive gophchat terminal client.
//
// It wires configuration, logging, the backend client, the upload strategy,
// the conversation log and the session, then runs a line-oriented REPL that
// acts as the view: it subscribes to log appends and phase changes and
// renders them, and it turns user input into turns for the session.
//
// A plain line is sent as a prompt. Commands start with a slash:
//
//	/attach <path>  select a file for the next turn
//	/detach         drop the selected file
//	/send           send the selected file without text
//	/multi          enter a multi-line prompt, finished by a line with "."
//	/clear          clear the screen and drop the selected file
//	/status         show the session phase
//	/history        reprint the conversation
//	/help           list commands
//	/quit | /exit   leave the program
//
// Each accepted turn runs on its own goroutine so the prompt stays usable;
// a second submission while one is in flight is refused. On exit the REPL
// waits for the in-flight turn to settle.
package cli
