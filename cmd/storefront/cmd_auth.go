package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Thamsanqa-bit/penden-storefront/internal/api"
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Sign in and store the auth token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		password, err := promptSecret("Password: ")
		if err != nil {
			return err
		}
		if err := app.gate.Login(cmd.Context(), args[0], password); err != nil {
			return err
		}
		fmt.Printf("Signed in as %s.\n", args[0])
		return nil
	},
}

var (
	registerEmail   string
	registerPhone   string
	registerAddress string
)

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create an account and sign in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		password, err := promptSecret("Password: ")
		if err != nil {
			return err
		}

		req := api.RegisterRequest{
			Username: args[0],
			Email:    registerEmail,
			Phone:    registerPhone,
			Address:  registerAddress,
			Password: password,
		}
		if err := app.gate.Register(cmd.Context(), req); err != nil {
			return err
		}
		fmt.Printf("Account created, signed in as %s.\n", args[0])
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored auth token",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		if err := app.gate.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		if !app.gate.IsLoggedIn(cmd.Context()) {
			fmt.Println("Not signed in.")
			return nil
		}
		user, err := app.gate.CurrentUser(cmd.Context())
		if err != nil {
			return describeAuthError(err)
		}
		fmt.Printf("%s <%s>\n", user.Username, user.Email)
		return nil
	},
}

// promptSecret reads a line from stdin. Password echo suppression is left to
// the interactive TUI; the one-shot commands keep stdin handling simple so
// they stay scriptable.
func promptSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "email address")
	registerCmd.Flags().StringVar(&registerPhone, "phone", "", "phone number")
	registerCmd.Flags().StringVar(&registerAddress, "address", "", "street address")
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}
