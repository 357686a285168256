package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/taskchat/internal/agentd"
	"github.com/dohr-michael/taskchat/internal/config"
)

// NewInitCommand returns the init subcommand.
func NewInitCommand() *cli.Command {
	return &cli.Command{
		Name:   "init",
		Usage:  "Create the taskchat home directory (~/.taskchat)",
		Action: runInit,
	}
}

func runInit(_ context.Context, cmd *cli.Command) error {
	root := config.DataPath()
	out := cmd.Root().Writer
	created := false

	dirs := []string{
		root,
		filepath.Join(root, "logs"),
		filepath.Join(root, "threads"),
	}
	for _, d := range dirs {
		if _, err := os.Stat(d); err != nil {
			if err := os.MkdirAll(d, 0o755); err != nil {
				return fmt.Errorf("create dir %s: %w", d, err)
			}
			fmt.Fprintf(out, "  Created %s\n", d)
			created = true
		}
	}

	files := []struct {
		path    string
		content string
		perm    os.FileMode
	}{
		{config.ConfigPath(), defaultConfig, 0o644},
		{config.DotenvPath(), defaultDotenv, 0o600},
		{filepath.Join(root, agentd.InstructionsFile), agentd.DefaultInstructions, 0o644},
	}
	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			continue
		}
		if err := os.WriteFile(f.path, []byte(f.content), f.perm); err != nil {
			return fmt.Errorf("write %s: %w", filepath.Base(f.path), err)
		}
		fmt.Fprintf(out, "  Created %s\n", f.path)
		created = true
	}

	if !created {
		fmt.Fprintf(out, "%s is already set up. Nothing to do.\n", root)
		return nil
	}

	fmt.Fprintf(out, `
  Home set up at %[1]s

  Next steps:
    1. Run the local backends: taskchat serve
    2. In another terminal:   taskchat chat
    3. For a model-backed assistant, set "server.brain" to "model" in
       %[1]s/config.jsonc and put your API key in %[1]s/.env
`, root)
	return nil
}

const defaultConfig = `{
	// taskchat configuration

	"endpoints": {
		"tasks": "http://127.0.0.1:18421/api/Tasks",
		"assistant": "http://127.0.0.1:18422/chat"
	},

	"startup": {
		"max_attempts": 10,
		"delay": "1s",
		"jitter": false
	},

	"monitor": {
		"interval": "15s",
		"hide_after": "5s"
	},

	"assistant": {
		"timeout": "60s"
	},

	"server": {
		"tasks_addr": "127.0.0.1:18421",
		"assistant_addr": "127.0.0.1:18422",
		// "command" understands list/add/remove/done; "model" asks the default model below.
		"brain": "command"
	},

	"models": {
		"default": "openai",
		"providers": {
			"openai": {
				"driver": "openai",
				"model": "gpt-4o-mini",
				"auth": {
					"api_key": "${{ .Env.OPENAI_API_KEY }}"
				}
			}

			// Local model via Ollama (no auth required)
			// "local": {
			// 	"driver": "ollama",
			// 	"model": "llama3.1:8b",
			// 	"base_url": "http://localhost:11434"
			// }
		}
	}
}
`

const defaultDotenv = `# taskchat environment variables
# This file is loaded automatically. Existing env vars are never overridden.

# OPENAI_API_KEY=sk-...
# AZURE_OPENAI_API_KEY=...
# MISTRAL_API_KEY=...
`
