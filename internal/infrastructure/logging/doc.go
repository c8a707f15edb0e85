// Package logging provides structured logging built on zap.
//
// Production output is JSON to stdout; development output is colorized
// console. All components receive a *Logger from the server rather than
// constructing their own.
package logging
