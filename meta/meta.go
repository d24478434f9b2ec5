// meta/meta.go
package meta

// SAMPLE_SIZE is the number of root moves searched at shallow difficulty.
const SAMPLE_SIZE = 8

// SAMPLE_DEPTH is the deepest search limit that still samples root moves.
const SAMPLE_DEPTH = 2

// WORKERS is the default number of goroutines scoring root moves.
const WORKERS = 1

// LISTEN_ADDR is the default address of the HTTP API.
const LISTEN_ADDR = ":8080"

// EXPERIMENT_GAMES is the default number of games per difficulty in an experiment.
const EXPERIMENT_GAMES = 10
