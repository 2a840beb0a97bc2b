package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"adpfetch/pkg/auth"
	"adpfetch/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage ADP credentials",
	Long: `Manage the stored ADP credentials.

Credentials are kept in:
  - The credentials file (plaintext, username then password, one per line)
  - The system keychain (when available)
  - Environment variables (ADPFETCH_USERNAME / ADPFETCH_PASSWORD, read-only)

Never share your credentials file!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Store ADP credentials",
	Long: `Prompt for your ADP username and password and store them in the
credentials file and, when available, the system keychain.`,
	Example: `  # Interactive login
  adpfetch auth login

  # Login with username
  adpfetch auth login jdoe`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored credentials",
	Long:  `Remove the stored ADP credentials from the credentials file and the system keychain.`,
	Run:   runLogout,
}

// showCmd represents the auth show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored account",
	Long:  `Show the stored ADP account with the password masked.`,
	Run:   runShow,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(showCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager := auth.NewManager(credsFile)

	var username string
	if len(args) > 0 {
		username = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	if username == "" {
		fmt.Print("ADP username: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			ui.PrintError("Failed to read username", err.Error())
			os.Exit(1)
		}
		username = strings.TrimSpace(input)
	}

	if username == "" {
		ui.PrintError("Username is required")
		os.Exit(1)
	}

	// Check if credentials already exist
	if existing, _ := manager.Resolve(); existing != nil {
		fmt.Printf("Credentials for '%s' already stored. Update? (y/N): ", existing.Username)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Print("ADP password (hidden): ")
	password, err := readPassword()
	if err != nil {
		ui.PrintError("Failed to read password", err.Error())
		os.Exit(1)
	}

	if password == "" {
		ui.PrintError("Password is required")
		os.Exit(1)
	}

	account := &auth.Account{Username: username, Password: password}
	if err := manager.Store(account); err != nil {
		ui.PrintError("Failed to store credentials", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Credentials stored for " + username)
}

func runLogout(cmd *cobra.Command, args []string) {
	manager := auth.NewManager(credsFile)

	if err := manager.Delete(); err != nil {
		ui.PrintError("Failed to remove credentials", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Credentials removed")
}

func runShow(cmd *cobra.Command, args []string) {
	manager := auth.NewManager(credsFile)

	account, err := manager.Resolve()
	if err != nil {
		ui.PrintError("No stored credentials", err.Error())
		os.Exit(1)
	}

	masked := auth.SanitizeAccount(account)
	ui.PrintInfo("Username", masked.Username)
	ui.PrintInfo("Password", masked.Password)
}

// readPassword reads a line from stdin without echoing it
func readPassword() (string, error) {
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
