package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new BlindStyle account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			if name == "" {
				name, err = prompt("Nome: ")
				if err != nil {
					return err
				}
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

			user, err := a.client.Register(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			fmt.Printf("Conta criada para %s. Use 'blindstyle login' para entrar.\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")

	return cmd
}
