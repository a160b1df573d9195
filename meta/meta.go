// meta/meta.go
package meta

// PLAYOUTS defines the number of MCTS iterations per move.
const PLAYOUTS = 200

// PLAYOUT_LENGTH caps the plies of a random playout, 0 plays to the end.
const PLAYOUT_LENGTH = 100

// DEPTH defines the alpha-beta search depth in plies.
const DEPTH = 2

// GAMES defines the number of games per match-up.
const GAMES = 5

// MAX_TURNS stops a game that has not ended after this many moves.
const MAX_TURNS = 300

// CONCURRENCY defines how many experiment games run at once.
const CONCURRENCY = 4

const OUTPUT_DIR = "results"
