package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/yatube-go/yatube/models"
	"github.com/yatube-go/yatube/utils"
)

type userInput struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UserCmd manages accounts.
func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(userCreateCmd(), userDeleteCmd())
	return cmd
}

// CreateUser validates input and stores an account with a bcrypt password hash.
func CreateUser(db *gorm.DB, username, email, password string) (*models.User, error) {
	in := userInput{Username: strings.TrimSpace(username), Email: strings.TrimSpace(email), Password: password}
	if err := utils.NewValidator().Struct(in); err != nil {
		var msgs []string
		for field, msg := range utils.FieldErrors(err) {
			msgs = append(msgs, field+": "+msg)
		}
		return nil, fmt.Errorf("invalid user: %s", strings.Join(msgs, "; "))
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{Username: in.Username, Email: in.Email, PasswordHash: hash}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

func userCreateCmd() *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			user, err := CreateUser(db, username, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&email, "email", "", "e-mail address")
	cmd.Flags().StringVar(&password, "password", "", "password, at least 8 characters")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func userDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete a user together with their posts, comments and follows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			var user models.User
			if err := db.Where("username = ?", args[0]).First(&user).Error; err != nil {
				return fmt.Errorf("user %q: %w", args[0], err)
			}
			if err := db.Delete(&user).Error; err != nil {
				return fmt.Errorf("delete user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", user.Username)
			return nil
		},
	}
}
