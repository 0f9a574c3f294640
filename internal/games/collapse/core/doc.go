// Package core implements the collapse puzzle: a grid of coloured items where
// tapping a cell clears every same-coloured cell connected to it.
//
// The package is split the way the game is driven:
//
//   - Layout computes item size and world positions for a board once.
//   - Pool pre-allocates items per colour and recycles them.
//   - Board keeps dense, row-ascending columns of active items.
//   - Engine runs flood fill, clearing, refills, tier assignment and
//     deadlock recovery, and notifies listeners through Events.
//   - Scheduler runs the engine's deferred continuations from the frame loop.
//
// Nothing here touches a terminal; the game package renders it.
package core
