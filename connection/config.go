package connection

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/joho/godotenv"
)

// Config describes a connection in terms of environment variables.
type Config struct {
	URL           string        `env:"ESCONN_URL" envDefault:"http://localhost:9200" validate:"required,url"`
	Timeout       time.Duration `env:"ESCONN_TIMEOUT" envDefault:"10s" validate:"gte=0s"`
	UserAgent     string        `env:"ESCONN_USER_AGENT"`
	ThrottleRPS   int           `env:"ESCONN_THROTTLE_RPS" validate:"gte=0"`
	ThrottleBurst int           `env:"ESCONN_THROTTLE_BURST" validate:"gte=0,required_with=ThrottleRPS"`
	OpaqueIDs     bool          `env:"ESCONN_OPAQUE_IDS"`
}

var validate *validator.Validate
var translator ut.Translator

func init() {
	validate = validator.New()
	var ok bool
	translator, ok = ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		panic("connection: failed to get 'en' translator")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	// Report fields by the variable that sets them.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("env"), ",", 2)[0]
		if name == "" {
			return fld.Name
		}

		return name
	})
}

// LoadConfig reads a Config from the environment. Any dotenv files given
// are loaded first; variables already set take precedence over them.
func LoadConfig(dotenvFiles ...string) (Config, error) {
	if len(dotenvFiles) > 0 {
		if err := godotenv.Load(dotenvFiles...); err != nil {
			return Config{}, fmt.Errorf("loading dotenv files: %w", err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the config against its declared tags.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrors validator.ValidationErrors
	if !errors.As(err, &verrors) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrors))
	for _, verror := range verrors {
		msgs = append(msgs, verror.Translate(translator))
	}

	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// Options converts the config into connection options.
func (c Config) Options() []Option {
	var opts []Option

	if c.Timeout > 0 {
		opts = append(opts, WithTimeout(c.Timeout))
	}
	if c.UserAgent != "" {
		opts = append(opts, WithUserAgent(c.UserAgent))
	}
	if c.ThrottleRPS > 0 {
		opts = append(opts, WithThrottle(c.ThrottleRPS, c.ThrottleBurst))
	}
	if c.OpaqueIDs {
		opts = append(opts, WithOpaqueIDs())
	}

	return opts
}

// FromConfig validates cfg and builds a Connection from it. optFns are
// applied after the options derived from cfg.
func FromConfig(cfg Config, optFns ...Option) (*Connection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return FromURI(cfg.URL, append(cfg.Options(), optFns...)...)
}
