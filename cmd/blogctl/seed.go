package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bloglist-backend/internal/domains/blog"
	"bloglist-backend/internal/domains/user"
	"bloglist-backend/internal/shared/auth"
	"bloglist-backend/pkg/container"
)

// sampleBlogs are created for the seeded user.
var sampleBlogs = []blog.CreateBlogRequest{
	{Title: "Test Blog 1", Author: "Test Author 1", URL: "http://www.testblog1.com", Likes: likes(1)},
	{Title: "Test Blog 2", Author: "Test Author 2", URL: "http://www.testblog2.com", Likes: likes(2)},
}

func likes(n int) *blog.LikeCount {
	l := blog.LikeCount(n)
	return &l
}

func SeedCmd() *cobra.Command {
	var username, name, password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a user and the sample blogs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			c, err := container.NewContainer(ctx, cfg)
			if err != nil {
				return err
			}
			defer c.Cleanup()

			return seed(ctx, cmd, c, user.RegisterRequest{Username: username, Name: name, Password: password})
		},
	}

	cmd.Flags().StringVar(&username, "username", "root", "username of the seeded user")
	cmd.Flags().StringVar(&name, "name", "Superuser", "display name of the seeded user")
	cmd.Flags().StringVar(&password, "password", "sekret", "password of the seeded user")
	return cmd
}

func seed(ctx context.Context, cmd *cobra.Command, c *container.Container, req user.RegisterRequest) error {
	u, err := c.UserService.Register(ctx, req)
	if err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			return fmt.Errorf("user %q already exists", req.Username)
		}
		return fmt.Errorf("register: %w", err)
	}

	identity := &auth.Identity{ID: u.ID, Username: u.Username, Name: u.Name}
	for _, b := range sampleBlogs {
		created, err := c.BlogService.Create(ctx, identity, b)
		if err != nil {
			return fmt.Errorf("create blog %q: %w", b.Title, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created blog %s (%s)\n", created.ID, created.Title)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded user %s (%s)\n", u.Username, u.ID)
	return nil
}
