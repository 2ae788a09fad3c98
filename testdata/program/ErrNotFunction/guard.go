//go:build abortif

package config

//abortif:debug
type Settings struct{}
