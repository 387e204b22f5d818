// Package app contains the generation pipeline. It defines the App struct,
// its configuration and the run lifecycle, decoupled from the command-line
// entrypoint so that several runs can happen in one process.
package app
