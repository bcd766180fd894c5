package config

import (
	"os"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

// parseEnv overlays values from the process environment, after loading an
// optional .env file from the working directory. Unset variables leave the
// current value alone.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if _, err := env.UnmarshalFromEnviron(config); err != nil {
		panic(err)
	}

	if origins, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		config.AllowedOrigins = splitList(origins)
	}
}

func splitList(s string) []string {
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	return lo.Compact(parts)
}
