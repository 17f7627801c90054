package settings

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/utils"
)

type SettingsCmd struct {
	Get SettingsGetCmd `cmd:"" help:"Show a setting."`
	Set SettingsSetCmd `cmd:"" help:"Change a setting."`
}

type SettingsGetCmd struct {
	Key string `arg:"" help:"Setting name (timezone)." enum:"timezone"`
}

func (c *SettingsGetCmd) Run(ctx *cli.Context) error {
	value, err := ctx.Store.GetSetting(c.Key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			fmt.Printf("%s is not set\n", c.Key)
			return nil
		}
		return fmt.Errorf("failed to get setting: %w", err)
	}

	fmt.Printf("%s = %s\n", c.Key, value)
	if ctx.Config != nil && ctx.Config.Timezone != "" && c.Key == constants.SettingTimezone {
		fmt.Println(cli.MutedStyle.Render(fmt.Sprintf("  overridden by configuration: %s", ctx.Config.Timezone)))
	}
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting name (timezone)." enum:"timezone"`
	Value string `arg:"" help:"New value, an IANA timezone name or Local."`
}

func (c *SettingsSetCmd) Validate() error {
	if c.Key == constants.SettingTimezone {
		if _, err := utils.LoadLocation(c.Value); err != nil {
			return apperrors.NewConfigurationError("timezone", c.Value)
		}
	}
	return nil
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := ctx.Store.SaveSetting(c.Key, c.Value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ %s set to %s", c.Key, c.Value)))
	return nil
}
