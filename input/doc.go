// Package input turns raw keyboard, pointer and touch events into reader
// commands.
//
// The Arbiter never touches rendering or pacing state itself. It sends
// discrete Commands and pinch zoom values to a Target, which is normally the
// reading session, and keeps the chrome visibility (show on activity, hide
// after a period of inactivity) as its only state.
//
// Events arrive between frames. The owner calls BeginTick at the start of
// each frame; identical discrete commands delivered within one tick are
// applied once, so a duplicated key or gesture event cannot turn two pages.
package input
