package flags

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// lookupEnv returns the first non-empty value among the named environment variables.
func lookupEnv(names ...string) (string, string, bool) {
	for _, name := range names {
		if v, ok := os.LookupEnv(name); ok && strings.TrimSpace(v) != "" {
			return name, strings.TrimSpace(v), true
		}
	}
	return "", "", false
}

// ParseBool accepts the boolean spellings GitHub Actions inputs use.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on":
		return true, nil
	case "false", "0", "no", "n", "off":
		return false, nil
	}
	return false, errors.Errorf("invalid boolean value %q", s)
}

func changed(fs *pflag.FlagSet, name string) bool {
	return fs != nil && fs.Changed(name)
}

// resolveBool applies flag > environment > config file > default to a bound flag value.
func resolveBool(fs *pflag.FlagSet, flag string, value *bool, config *bool, env ...string) error {
	if changed(fs, flag) {
		return nil
	}
	if name, v, ok := lookupEnv(env...); ok {
		b, err := ParseBool(v)
		if err != nil {
			return errors.WithMessagef(err, "environment variable %s", name)
		}
		*value = b
		return nil
	}
	if config != nil {
		*value = *config
	}
	return nil
}

func resolveInt(fs *pflag.FlagSet, flag string, value *int, config *int, env ...string) error {
	if changed(fs, flag) {
		return nil
	}
	if name, v, ok := lookupEnv(env...); ok {
		i, err := strconv.Atoi(v)
		if err != nil {
			return errors.Errorf("environment variable %s: invalid integer %q", name, v)
		}
		*value = i
		return nil
	}
	if config != nil {
		*value = *config
	}
	return nil
}
