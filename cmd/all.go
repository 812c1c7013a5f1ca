package cmd

import (
	_ "server-launcher/cmd/command"
	_ "server-launcher/cmd/install"
	_ "server-launcher/cmd/launch"
	_ "server-launcher/cmd/root"
	_ "server-launcher/cmd/status"
)
