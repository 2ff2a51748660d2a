package main

import (
	"github.com/homectl/go-tasmota/tasmoctl"
)

func main() {
	tasmoctl.Execute()
}
