package cmd

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/killallgit/fraza-api/pkg/config"
)

// Build variables - these will be set during build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Display the Fraza API build and the backends it is configured for:
environment, database driver, Azure OpenAI deployment, speech region,
audio container and sign-in mode. No connections are opened.`,
	Run: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("short", "s", false, "print just the version number")
}

func runVersion(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	if short, _ := cmd.Flags().GetBool("short"); short {
		fmt.Fprintf(out, "v%s\n", Version)
		return
	}

	fmt.Fprintln(out, "Fraza API")
	fmt.Fprintln(out, strings.Repeat("-", 40))
	fmt.Fprintf(out, "Version:      v%s (%s, built %s)\n", Version, GitCommit, BuildTime)
	fmt.Fprintf(out, "Runtime:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)

	cfg, err := versionConfig()
	if err != nil {
		fmt.Fprintf(out, "Config:       unavailable (%v)\n", err)
	} else {
		describeService(out, cfg)
	}
	fmt.Fprintln(out, strings.Repeat("-", 40))
}

func versionConfig() (*config.Config, error) {
	if err := config.Init(); err != nil {
		return nil, err
	}
	return config.GetConfig()
}

// describeService prints the configured backends without secrets
func describeService(out io.Writer, cfg *config.Config) {
	fmt.Fprintf(out, "Environment:  %s\n", cfg.Environment)
	fmt.Fprintf(out, "Database:     %s\n", cfg.Database.Driver())
	fmt.Fprintf(out, "LLM:          %s\n", orUnset(cfg.LLM.Deployment))
	fmt.Fprintf(out, "Speech:       %s\n", orUnset(cfg.Speech.Region))
	fmt.Fprintf(out, "Audio:        %s\n", orUnset(cfg.Storage.Container))
	fmt.Fprintf(out, "Sign-in:      %s\n", signInMode(cfg.Auth))
}

func signInMode(a config.AuthConfig) string {
	mode := "firebase"
	if a.FirebaseProjectID != "" {
		mode += " (" + a.FirebaseProjectID + ")"
	}
	if a.DevEnabled {
		mode += " + dev token"
	}
	return mode
}

func orUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
