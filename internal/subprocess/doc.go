// Package subprocess drives one request through a started server process.
//
// Run writes the request line to the process stdin and closes it, drains
// stdout and stderr concurrently so neither pipe can fill up and stall the
// child, and enforces the call deadline. When the deadline expires the
// process group is killed, the pipes are released and the process is reaped
// before Run returns.
package subprocess
