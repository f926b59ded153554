package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Redis  RedisConfig  `mapstructure:"redis"`
	JWT    JWTConfig    `mapstructure:"jwt"`
	Game   GameConfig   `mapstructure:"game"`
	Limits LimitConfig  `mapstructure:"limits"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int    `mapstructure:"expire"` // hours
}

type GameConfig struct {
	SmallBlind  int  `mapstructure:"smallBlind"`
	BigBlind    int  `mapstructure:"bigBlind"`
	MinBuyIn    int  `mapstructure:"minBuyIn"`
	MaxBuyIn    int  `mapstructure:"maxBuyIn"`
	TurnSeconds int  `mapstructure:"turnSeconds"` // 0 disables the turn timer
	AutoDeal    bool `mapstructure:"autoDeal"`
	MaxRooms    int  `mapstructure:"maxRooms"`
}

type LimitConfig struct {
	JoinPerMinute int `mapstructure:"joinPerMinute"`
	ChatPerMinute int `mapstructure:"chatPerMinute"`
}

var GlobalConfig *Config

func LoadConfig(path string) {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
	GlobalConfig = &cfg
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("jwt.expire", 24)
	viper.SetDefault("game.smallBlind", 1)
	viper.SetDefault("game.bigBlind", 2)
	viper.SetDefault("game.minBuyIn", 40)
	viper.SetDefault("game.maxBuyIn", 1000)
	viper.SetDefault("game.turnSeconds", 30)
	viper.SetDefault("game.autoDeal", true)
	viper.SetDefault("game.maxRooms", 512)
	viper.SetDefault("limits.joinPerMinute", 12)
	viper.SetDefault("limits.chatPerMinute", 30)
}
