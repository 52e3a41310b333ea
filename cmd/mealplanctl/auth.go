package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	authCmd := &cobra.Command{Use: "auth", Short: "Account operations"}

	// register
	var email, password, name, weekStart string
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"email":        email,
				"password":     password,
				"weekStartDay": weekStart,
			}
			if name != "" {
				payload["displayName"] = name
			}
			data, err := doPostJSON("/v0/auth/register", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	registerCmd.Flags().StringVarP(&email, "email", "e", "", "Email (required)")
	registerCmd.Flags().StringVarP(&password, "password", "p", "", "Password (required)")
	registerCmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	registerCmd.Flags().StringVarP(&weekStart, "week-start", "w", "MONDAY", "Week start day (SUNDAY, MONDAY, SATURDAY)")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")
	authCmd.AddCommand(registerCmd)

	// login
	var loginEmail, loginPassword string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON("/v0/auth/login", map[string]interface{}{
				"email":    loginEmail,
				"password": loginPassword,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Email (required)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (required)")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
	authCmd.AddCommand(loginCmd)

	rootCmd.AddCommand(authCmd)
}
