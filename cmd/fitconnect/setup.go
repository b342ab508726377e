package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively configure API credentials",
	Long: `Prompts for Withings and Strava API credentials and appends the
matching export lines to your shell profile. Existing values are kept
when a prompt is left empty.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(cmd.InOrStdin())

		fmt.Println("Withings setup (https://developer.withings.com/dashboard/)")
		vars, err := promptEnvVars(reader, []string{
			"WITHINGS_CLIENT_ID",
			"WITHINGS_CLIENT_SECRET",
		})
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println("Strava setup (https://www.strava.com/settings/api)")
		stravaVars, err := promptEnvVars(reader, []string{
			"STRAVA_CLIENT_ID",
			"STRAVA_CLIENT_SECRET",
		})
		if err != nil {
			return err
		}
		for k, v := range stravaVars {
			vars[k] = v
		}

		if len(vars) == 0 {
			fmt.Println("Nothing to configure, keeping existing environment.")
			return nil
		}
		return writeEnvVars(vars)
	},
}

// promptEnvVars asks for each variable, keeping the current value when the
// answer is empty.
func promptEnvVars(reader *bufio.Reader, keys []string) (map[string]string, error) {
	vars := make(map[string]string)
	for _, key := range keys {
		current := os.Getenv(key)
		if current != "" {
			fmt.Printf("%s (current: %s***): ", key, current[:min(4, len(current))])
		} else {
			fmt.Printf("%s: ", key)
		}

		value, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		value = strings.TrimSpace(value)
		if value != "" {
			vars[key] = value
		}
	}
	return vars, nil
}

// writeEnvVars appends export lines to the user's shell profile.
func writeEnvVars(vars map[string]string) error {
	shell := os.Getenv("SHELL")
	home := os.Getenv("HOME")

	var profileFile string
	switch {
	case strings.Contains(shell, "zsh"):
		profileFile = home + "/.zshrc"
	case strings.Contains(shell, "bash"):
		profileFile = home + "/.bashrc"
		if _, err := os.Stat(home + "/.bash_profile"); err == nil {
			profileFile = home + "/.bash_profile"
		}
	default:
		profileFile = home + "/.profile"
	}

	file, err := os.OpenFile(profileFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open profile file %s: %w", profileFile, err)
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "\n# fitconnect configuration\n"); err != nil {
		return err
	}
	for key, value := range vars {
		if _, err := fmt.Fprintf(file, "export %s=%q\n", key, value); err != nil {
			return err
		}
		fmt.Printf("Added %s to %s\n", key, profileFile)
	}

	fmt.Printf("Run 'source %s' or restart your terminal to load the new variables.\n", profileFile)
	return nil
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
