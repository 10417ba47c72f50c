package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	authcmd "github.com/Hiro-mackay/pdfops/internal/usecase/auth/command"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userPromoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Change a user's role",
	Run:   runUserPromote,
}

var (
	promoteEmail string
	promoteRole  string
)

func init() {
	userPromoteCmd.Flags().StringVar(&promoteEmail, "email", "", "User email")
	userPromoteCmd.Flags().StringVar(&promoteRole, "role", "ADMIN", "New role (USER or ADMIN)")
	_ = userPromoteCmd.MarkFlagRequired("email")

	userCmd.AddCommand(userPromoteCmd)
}

func runUserPromote(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	user, err := c.Container.Auth.PromoteUser.Execute(c.Ctx, authcmd.PromoteUserInput{
		Email: promoteEmail,
		Role:  promoteRole,
	})
	if err != nil {
		exitError("%v", err)
	}

	fmt.Printf("%s (id %d) is now ", user.Email.String(), user.ID)
	color.New(color.FgGreen, color.Bold).Println(string(user.Role))
}
