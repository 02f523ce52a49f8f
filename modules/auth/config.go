package auth

import "time"

// Config carries auth settings loaded from the environment. The signing
// secret has no default; startup fails without it.
type Config struct {
	JWTSecret    string        `env:"JWT_SECRET,required"`
	JWTTTL       time.Duration `env:"JWT_TTL" envDefault:"24h"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`

	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"12"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL" envDefault:"10m"`

	// AppBaseURL is used to build password reset links, e.g.
	// https://example.com
	AppBaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
}
