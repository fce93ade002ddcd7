package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string `yaml:"env" env:"ENV" env-default:"local"`
	Telegram struct {
		ApiKey       string  `yaml:"api_key" env:"BOT_TOKEN" env-default:""`
		BotName      string  `yaml:"bot_name" env-default:"ShopBot"`
		AdminIds     []int64 `yaml:"admin_ids" env:"ADMIN_IDS"`
		SuperAdminId int64   `yaml:"super_admin_id" env:"SUPER_ADMIN_ID" env-default:"0"`
	} `yaml:"telegram"`
	Database struct {
		Path string `yaml:"path" env:"DATABASE_PATH" env-default:"bot_database.db"`
	} `yaml:"database"`
	Stars struct {
		// Rate is the fiat price of one Star used when converting cart
		// totals into invoice amounts.
		Rate      float64 `yaml:"rate" env:"STARS_RATE" env-default:"1.9"`
		MinAmount int64   `yaml:"min_amount" env:"STARS_MIN_AMOUNT" env-default:"1"`
		ChannelId int64   `yaml:"channel_id" env:"STARS_CHANNEL_ID" env-default:"0"`
	} `yaml:"stars"`
	Payment struct {
		CardNumber string `yaml:"card_number" env-default:""`
		Phone      string `yaml:"phone" env-default:""`
	} `yaml:"payment"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}

// IsSuperAdmin reports whether id is the configured super-admin.
func (c *Config) IsSuperAdmin(id int64) bool {
	return c.Telegram.SuperAdminId != 0 && id == c.Telegram.SuperAdminId
}

// IsConfiguredAdmin reports whether id is in the static admin list or is the
// super-admin. Storage-flagged admins are checked separately.
func (c *Config) IsConfiguredAdmin(id int64) bool {
	if c.IsSuperAdmin(id) {
		return true
	}
	for _, admin := range c.Telegram.AdminIds {
		if admin == id {
			return true
		}
	}
	return false
}
