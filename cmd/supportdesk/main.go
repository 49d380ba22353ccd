// Supportdesk is a support-request router: it classifies free-text or spoken
// requests and runs allow-listed tasks on a Windows server over WinRM.
//
// Usage:
//
//	supportdesk serve [--config /path/to/supportdesk.yaml]
//	supportdesk classify "no responde el puerto 443"
//	supportdesk registry check
//
// @title       Supportdesk API
// @version     1.0
// @description Support request router: classifies requests and runs allow-listed remote tasks.
// @BasePath    /
package main

import "os"

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
