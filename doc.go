// Package blox provides directive handlers that turn view properties
// into computed values and event callbacks.
//
// The handlers are in package 'core'.  Package 'render' is a small
// host that runs them over views, and some command-line tools are in
// `cmd`.
package blox
