package main

import (
	"os"

	"github.com/pingware/portping/internal/app"
)

func main() {
	os.Exit(app.Run())
}
