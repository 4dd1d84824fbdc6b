// Command admin-token prints a signed admin JWT for the /admin routes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"voicefaq/pkg/auth"
	"voicefaq/pkg/config"
)

func main() {
	subject := pflag.String("subject", "admin", "Token subject")
	envFile := pflag.String("env", "", "Optional env file to load")
	pflag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *envFile != "" {
		cfg, err = config.LoadFile(*envFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.JWT.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Refusing to sign with the placeholder secret: %v\n", err)
		os.Exit(1)
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)
	token, err := jwtManager.GenerateToken(*subject, auth.RoleAdmin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
