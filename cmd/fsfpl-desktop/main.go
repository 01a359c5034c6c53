// Command fsfpl-desktop serves a stand-in for the desktop application so the
// clients can be tried without a simulator.
package main

import (
	"flag"
	"net/http"

	"go.uber.org/zap"

	"fsfplink/internal/api/apitest"
	"fsfplink/internal/utils"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:32030", "Listen address")
	pin := flag.String("pin", "1234", "PIN the desktop accepts")
	debug := flag.Bool("debug", false, "Verbose logging")
	flag.Parse()

	logger := utils.NewConsoleLogger(*debug)
	defer logger.Close()

	d := apitest.Standalone(*pin)
	logger.Info("desktop stand-in running", zap.String("addr", *addr))
	if err := http.ListenAndServe(*addr, d.Router()); err != nil {
		logger.Error("listen", zap.Error(err))
	}
}
