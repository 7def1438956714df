// Package util holds small helpers shared by config and server code.
package util
