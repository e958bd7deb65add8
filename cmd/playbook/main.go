// Command playbook serves the employee playbook's pages and sign-in forms.
//
// Configuration is read from the environment and a ".env" file; confer package ranger.
package main

import (
	"os"

	"github.com/tep-hq/playbook/logger"
	"github.com/tep-hq/playbook/ranger"
)

func main() {
	cfg := ranger.NewConfig()
	l := logger.New(logger.WithEnv(cfg.Env.String()), logger.WithLevel(cfg.LogLevel))

	rng, err := ranger.New(cfg)
	if err != nil {
		l.Fatal("could not start playbook", &logger.LogContext{Error: err})
		os.Exit(1)
	}

	if err := rng.Guide(); err != nil {
		rng.EmitLogger().Fatal("web server stopped", &logger.LogContext{Error: err})
		os.Exit(1)
	}
}
