package config

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var GistsearchVersion = "0.1.0"

var C *config

// Not using nested structs because the library
// doesn't support dot notation in this case sadly
type config struct {
	LogLevel  string `yaml:"log-level"`
	LogOutput string `yaml:"log-output"`
	LogFile   string `yaml:"log-file"`

	HttpHost      string `yaml:"http.host"`
	HttpPort      string `yaml:"http.port"`
	HttpBodyLimit string `yaml:"http.body-limit"`

	GithubApiUrl  string        `yaml:"github.api-url"`
	GithubGistUrl string        `yaml:"github.gist-url"`
	GithubTimeout time.Duration `yaml:"github.timeout"`

	SearchMatchTimeout time.Duration `yaml:"search.match-timeout"`

	MetricsEnabled bool `yaml:"metrics.enabled"`
}

func configWithDefaults() *config {
	c := &config{}

	c.LogLevel = "warn"
	c.LogOutput = "stdout"
	c.LogFile = "gistsearch.log"

	c.HttpHost = "0.0.0.0"
	c.HttpPort = "9876"
	c.HttpBodyLimit = "1M"

	c.GithubApiUrl = "https://api.github.com"
	c.GithubGistUrl = "https://gist.github.com"
	c.GithubTimeout = 10 * time.Second

	c.SearchMatchTimeout = 2 * time.Second

	c.MetricsEnabled = false

	return c
}

func InitConfig(configPath string, out io.Writer) error {
	// Default values
	c := configWithDefaults()

	if configPath != "" {
		file, err := os.Open(configPath)
		if err != nil {
			return err
		}
		defer file.Close()

		_, _ = fmt.Fprintln(out, "Using config file: "+configPath)

		// Override default values with values from config.yml
		d := yaml.NewDecoder(file)
		if err = d.Decode(c); err != nil && err != io.EOF {
			return err
		}
	}

	// Override default values with environment variables
	if err := loadConfigFromEnv(c, out); err != nil {
		return err
	}

	if err := c.validate(); err != nil {
		return err
	}

	C = c

	return nil
}

func InitLog() {
	var writers []io.Writer
	for _, output := range strings.Split(C.LogOutput, ",") {
		switch strings.TrimSpace(output) {
		case "stdout":
			writers = append(writers, zerolog.NewConsoleWriter())
		case "stderr":
			writers = append(writers, zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
				w.Out = os.Stderr
			}))
		case "file":
			file, err := os.OpenFile(C.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				panic(err)
			}
			writers = append(writers, file)
		}
	}
	if len(writers) == 0 {
		writers = append(writers, zerolog.NewConsoleWriter())
	}
	multi := zerolog.MultiLevelWriter(writers...)

	level, err := zerolog.ParseLevel(C.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	log.Logger = zerolog.New(multi).Level(level).With().Timestamp().Logger()

	// zerolog.Ctx falls back to this logger when a context carries none
	zerolog.DefaultContextLogger = &log.Logger
}

func (c *config) validate() error {
	for key, raw := range map[string]string{"github.api-url": c.GithubApiUrl, "github.gist-url": c.GithubGistUrl} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s: %q", key, raw)
		}
	}
	if c.GithubTimeout <= 0 {
		return fmt.Errorf("github.timeout must be positive, got %s", c.GithubTimeout)
	}
	if c.SearchMatchTimeout <= 0 {
		return fmt.Errorf("search.match-timeout must be positive, got %s", c.SearchMatchTimeout)
	}
	return nil
}

// EnvKey returns the environment variable overriding a yaml key,
// e.g. github.api-url -> GS_GITHUB_API_URL
func EnvKey(yamlKey string) string {
	return "GS_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(yamlKey))
}

var durationType = reflect.TypeOf(time.Duration(0))

func loadConfigFromEnv(c *config, out io.Writer) error {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		envKey := EnvKey(t.Field(i).Tag.Get("yaml"))

		envValue, ok := os.LookupEnv(envKey)
		if !ok {
			continue
		}

		switch {
		case field.Type() == durationType:
			d, err := time.ParseDuration(envValue)
			if err != nil {
				return fmt.Errorf("invalid duration for %s: %w", envKey, err)
			}
			field.SetInt(int64(d))
		case field.Kind() == reflect.String:
			field.SetString(envValue)
		case field.Kind() == reflect.Bool:
			b, err := strconv.ParseBool(envValue)
			if err != nil {
				return fmt.Errorf("invalid boolean for %s: %w", envKey, err)
			}
			field.SetBool(b)
		case field.Kind() == reflect.Int:
			n, err := strconv.Atoi(envValue)
			if err != nil {
				return fmt.Errorf("invalid integer for %s: %w", envKey, err)
			}
			field.SetInt(int64(n))
		default:
			return fmt.Errorf("unsupported type for %s", envKey)
		}

		_, _ = fmt.Fprintln(out, "Using environment variable: "+envKey)
	}

	return nil
}

func GetHttpAddr() string {
	return C.HttpHost + ":" + C.HttpPort
}
