// Package logging provides leveled logging on top of the standard log
// package. The level is read once from the DEBUG and LOG_LEVEL environment
// variables.
package logging
