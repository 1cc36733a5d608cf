package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newKeyCmd() *cobra.Command {
	var envPath string

	cmd := &cobra.Command{
		Use:   "key",
		Short: "Store the Anthropic API key in .env",
		Long:  "Prompts for the API key without echoing it and writes ANTHROPIC_API_KEY to the env file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKey(cmd, envPath)
		},
	}

	cmd.Flags().StringVar(&envPath, "env-file", ".env", "path to the env file")
	return cmd
}

func runKey(cmd *cobra.Command, envPath string) error {
	out := cmd.OutOrStdout()

	fmt.Fprint(out, "Anthropic API key: ")
	key, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("read key: %w", err)
	}
	trimmed := strings.TrimSpace(string(key))
	if trimmed == "" {
		return fmt.Errorf("no key entered")
	}

	if err := writeEnvKey(envPath, "ANTHROPIC_API_KEY", trimmed); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved ANTHROPIC_API_KEY to %s\n", envPath)
	return nil
}

// writeEnvKey sets key=value in the env file, replacing an existing line
// for the same key and keeping everything else.
func writeEnvKey(path, key, value string) error {
	var lines []string
	if data, err := os.ReadFile(path); err == nil {
		lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", path, err)
	}

	replaced := false
	for i, line := range lines {
		if strings.HasPrefix(line, key+"=") {
			lines[i] = key + "=" + value
			replaced = true
		}
	}
	if !replaced {
		lines = append(lines, key+"="+value)
	}

	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
