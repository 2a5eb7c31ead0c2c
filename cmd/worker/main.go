package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker reconcile")
	}

	switch os.Args[1] {
	case "reconcile":
		RunReconcile()
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
