package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session tokens",
		Long: `Logs in to the BlindStyle API and persists the access/refresh token pair.

Other commands pick the session up automatically; the access token is renewed
in the background while a long-running command (like capture) is open.`,
		Example: `  blindstyle login --email maria@example.com
  blindstyle login   # prompts for credentials`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			if email == "" {
				email, err = prompt("Email: ")
				if err != nil {
					return err
				}
			}
			if password == "" {
				password, err = prompt("Senha: ")
				if err != nil {
					return err
				}
			}

			if err := a.session.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			fmt.Println("Login realizado com sucesso.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")

	return cmd
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
