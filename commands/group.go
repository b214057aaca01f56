package commands

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/yatube-go/yatube/models"
	"github.com/yatube-go/yatube/utils"
)

// groupInput is validated before a group is stored.
type groupInput struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Slug        string `json:"slug" validate:"required,max=50,slug"`
	Description string `json:"description" validate:"required,notblank"`
}

// GroupCmd manages groups.
func GroupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage post groups",
	}
	cmd.AddCommand(groupCreateCmd(), groupDeleteCmd(), groupListCmd())
	return cmd
}

// CreateGroup validates input and inserts a group.
func CreateGroup(db *gorm.DB, title, slug, description string) (*models.Group, error) {
	in := groupInput{
		Title:       strings.TrimSpace(title),
		Slug:        strings.TrimSpace(slug),
		Description: strings.TrimSpace(description),
	}
	if err := utils.NewValidator().Struct(in); err != nil {
		var msgs []string
		for field, msg := range utils.FieldErrors(err) {
			msgs = append(msgs, field+": "+msg)
		}
		return nil, fmt.Errorf("invalid group: %s", strings.Join(msgs, "; "))
	}
	var n int64
	if err := db.Model(&models.Group{}).Where("slug = ?", in.Slug).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if n > 0 {
		return nil, fmt.Errorf("group with slug %q already exists", in.Slug)
	}
	group := models.Group{Title: in.Title, Slug: in.Slug, Description: in.Description}
	if err := db.Create(&group).Error; err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return &group, nil
}

// DeleteGroup removes a group by slug; its posts stay and lose the group.
func DeleteGroup(db *gorm.DB, slug string) error {
	var group models.Group
	if err := db.Where("slug = ?", slug).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("group %q not found", slug)
		}
		return fmt.Errorf("load group: %w", err)
	}
	if err := db.Delete(&group).Error; err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}

func groupCreateCmd() *cobra.Command {
	var title, slug, description string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			group, err := CreateGroup(db, title, slug, description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created group %q (/group/%s/)\n", group.Title, group.Slug)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "group title")
	cmd.Flags().StringVar(&slug, "slug", "", "URL slug: letters, digits, '-' and '_'")
	cmd.Flags().StringVar(&description, "description", "", "group description")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("slug")
	return cmd
}

func groupDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete a group, keeping its posts",
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
			if err := DeleteGroup(db, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted group %q\n", args[0])
			return nil
		},
	}
}

func groupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			var groups []models.Group
			if err := db.Order("title ASC").Find(&groups).Error; err != nil {
				return fmt.Errorf("list groups: %w", err)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSLUG\tTITLE")
			for _, g := range groups {
				fmt.Fprintf(w, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
			}
			return w.Flush()
		},
	}
}
