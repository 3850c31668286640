// Package script runs JavaScript control programs with goja.
//
// A program is read and compiled once by Load and can then be run by any
// number of agents. Each Run gets a fresh runtime exposing the binding
// surface:
//
//	move(distance)  blocks until the ship has travelled distance
//	turn(degrees)   blocks until the ship has turned; positive is clockwise on screen
//	shoot()         fires one projectile and blocks for the cooldown
//	raycast()       "ship", "obstacle", "wall" or "none" straight ahead
//	raycast_dist()  distance to what raycast() saw
//	x(), y()        the ship's position at the last completed tick
//	print(...)      logs its arguments
package script
