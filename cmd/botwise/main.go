package main

import (
	"botwise/cmd/botwise/commands"
	"botwise/lib/serviceutil"
	"botwise/lib/telemetry"
)

func main() {
	telemetry.InitSlog(false)
	commands.ExecuteContext(serviceutil.SignalContext())
}
