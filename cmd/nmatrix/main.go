// Package main provides the nmatrix command-line tool for inspecting,
// converting and multiplying .nmx matrix files.
package main

import (
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("nmatrix: ")

	if err := newRootCmd().Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
