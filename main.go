// Command nextevent runs discrete-event simulation studies.
package main

import (
	"github.com/sarchlab/nextevent/cmd"
	"github.com/tebeka/atexit"
)

func main() {
	atexit.Exit(cmd.Execute())
}
