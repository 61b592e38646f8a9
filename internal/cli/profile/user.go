package profile

import (
	"fmt"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/validation"
)

type UserCmd struct {
	Show   UserShowCmd   `cmd:"" help:"Show the profile." default:"1"`
	Update UserUpdateCmd `cmd:"" help:"Update profile fields."`
}

type UserShowCmd struct{}

func (c *UserShowCmd) Run(ctx *cli.Context) error {
	u := ctx.Tracker.User()

	joined := u.JoinedDate
	if len(joined) >= 10 {
		joined = joined[:10]
	}

	ctx.Println(cli.HeaderStyle.Render(u.Name))
	ctx.Printf("  Email:           %s\n", u.Email)
	ctx.Printf("  Avatar:          %s\n", cli.MutedStyle.Render(u.Avatar))
	ctx.Printf("  Joined:          %s\n", joined)
	ctx.Printf("  Best streak:     %d days\n", u.StreakCount)
	ctx.Printf("  Completion rate: %d%%\n", u.CompletionRate)
	return nil
}

type UserUpdateCmd struct {
	Name   *string `help:"Display name."`
	Email  *string `help:"Email address."`
	Avatar *string `help:"Avatar image URL."`
}

func (c *UserUpdateCmd) Run(ctx *cli.Context) error {
	patch := models.UserPatch{Name: c.Name, Email: c.Email, Avatar: c.Avatar}
	if patch.IsEmpty() {
		return fmt.Errorf("nothing to change; pass --name, --email or --avatar")
	}
	if c.Name != nil {
		if err := validation.NotBlank("name", *c.Name); err != nil {
			return err
		}
	}
	if c.Email != nil {
		if err := validation.Email(*c.Email); err != nil {
			return err
		}
	}
	if c.Avatar != nil {
		if err := validation.AvatarURL(*c.Avatar); err != nil {
			return err
		}
	}

	if err := ctx.Lock(); err != nil {
		return err
	}
	defer ctx.Unlock()

	if err := ctx.Tracker.UpdateUser(patch); err != nil {
		return err
	}
	ctx.Printf("%s Profile updated\n", cli.SuccessStyle.Render("✓"))
	return nil
}
