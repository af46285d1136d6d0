package config

import (
	"log/slog"
	"os"

	"github.com/corray333/backend-labs/meatshop/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func MustInit() {
	envErr := godotenv.Load("./.env")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/meatshop")
	viper.AddConfigPath(".")
	setDefaults()
	if err := viper.ReadInConfig(); err != nil {
		panic("error while reading config file: " + err.Error())
	}
	SetupLogger()

	// Variables may come from the container environment instead.
	if envErr != nil {
		slog.Warn("No .env file loaded", "error", envErr)
	}
}

func SetupLogger() {
	handler := logger.NewHandler(os.Stdout, viper.GetString("env"))
	log := slog.New(handler)
	slog.SetDefault(log)
}

func setDefaults() {
	viper.SetDefault("env", "production")
	viper.SetDefault("storage.driver", "postgres")
	viper.SetDefault("server.http.port", "5000")
	viper.SetDefault("server.grpc.port", "50051")
	viper.SetDefault("auth.jwt_expires_in", "7d")
	viper.SetDefault("orders.track_limit", 10)
	viper.SetDefault("orders.code_retries", 5)
	viper.SetDefault("orders.strict_transitions", true)
	viper.SetDefault("rabbitmq.exchange", "meatshop.orders")
}
